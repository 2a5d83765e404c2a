package store

import "time"

// Reading is one persisted air quality observation.
type Reading struct {
	ReadingID   int64     `json:"reading_id"`
	Station     string    `json:"station"`
	RecordedAt  time.Time `json:"recorded_at"`
	AQI         float64   `json:"aqi"`
	Category    string    `json:"category"`
	PM25        float64   `json:"pm25"`
	PM10        float64   `json:"pm10"`
	NO2         float64   `json:"no2"`
	SO2         float64   `json:"so2"`
	CO          float64   `json:"co"`
	O3          float64   `json:"o3"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"wind_speed"`
	Provenance  string    `json:"provenance"`

	SeverityLevel int    `json:"severity_level"`
	RiskScore     int    `json:"risk_score"`
	Explanation   string `json:"explanation"`
}

// Trend summarizes how the AQI moved over an analysis window.
type Trend struct {
	Station     string    `json:"station"`
	Samples     int       `json:"samples"`
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`
	MeanAQI     float64   `json:"mean_aqi"`
	MinAQI      float64   `json:"min_aqi"`
	MaxAQI      float64   `json:"max_aqi"`
	Direction   string    `json:"direction"` // improving, worsening, stable
	ChangePct   float64   `json:"change_pct"`
}
