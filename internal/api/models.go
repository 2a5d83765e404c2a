package api

// Snapshot payload types. Field names and tags follow the backend's JSON
// wire shapes; the fallback generators must produce values satisfying the
// exact same shape so rendering never branches on provenance.

// Pollutants holds individual pollutant concentrations.
type Pollutants struct {
	PM25 float64 `json:"pm25"`
	PM10 float64 `json:"pm10"`
	SO2  float64 `json:"so2"`
	NO2  float64 `json:"no2"`
	CO   float64 `json:"co"`
	O3   float64 `json:"o3"`
}

// Weather holds the meteorological context attached to a reading.
type Weather struct {
	Temperature   float64 `json:"temperature"`
	Humidity      float64 `json:"humidity"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection string  `json:"wind_direction"`
	Pressure      float64 `json:"pressure"`
}

// StationRef identifies the monitoring station a reading belongs to.
type StationRef struct {
	Name     string `json:"name"`
	ID       string `json:"id"`
	Location string `json:"location"`
}

// CurrentAQI is the GET /api/overview/current-aqi snapshot.
type CurrentAQI struct {
	AQI              float64    `json:"aqi"`
	Category         string     `json:"category"`
	PrimaryPollutant string     `json:"primary_pollutant"`
	HealthAdvisory   string     `json:"health_advisory"`
	HealthRisk       string     `json:"health_risk"`
	Color            string     `json:"color"`
	Pollutants       Pollutants `json:"pollutants"`
	Weather          Weather    `json:"weather"`
	LastUpdated      string     `json:"last_updated"`
	Station          StationRef `json:"station"`
	Source           string     `json:"source"`
}

// Station is one row of GET /api/overview/station-data.
type Station struct {
	Name          string `json:"name"`
	AQI           string `json:"aqi"`
	PrimarySource string `json:"primary_source"`
	Trend         string `json:"trend"`
}

// Alert is one real-time pollution alert.
type Alert struct {
	ID              int      `json:"id"`
	Type            string   `json:"type"`
	Title           string   `json:"title"`
	Message         string   `json:"message"`
	Location        string   `json:"location"`
	Severity        string   `json:"severity"`
	Timestamp       string   `json:"timestamp"`
	ActionRequired  bool     `json:"action_required"`
	AffectedAreas   []string `json:"affected_areas"`
	Recommendations []string `json:"recommendations"`
}

// AlertSummary counts alerts by type.
type AlertSummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	Warning  int `json:"warning"`
	Info     int `json:"info"`
}

// AlertsFeed is the GET /api/modern/alerts/realtime snapshot.
type AlertsFeed struct {
	Alerts      []Alert      `json:"alerts"`
	Summary     AlertSummary `json:"summary"`
	LastUpdated string       `json:"last_updated"`
}

// Prediction is one forecast point.
type Prediction struct {
	Timestamp  string  `json:"timestamp"`
	AQI        float64 `json:"aqi"`
	Confidence float64 `json:"confidence"`
}

// HorizonForecast groups predictions for one horizon (6_hour, 24_hour,
// 72_hour).
type HorizonForecast struct {
	Predictions []Prediction `json:"predictions"`
	Confidence  float64      `json:"confidence"`
	PeakAQI     float64      `json:"peak_aqi"`
	Trend       string       `json:"trend"`
}

// AIInsights carries the model's source attribution for a forecast.
type AIInsights struct {
	IdentifiedSources  []string `json:"identified_sources"`
	DominantSource     string   `json:"dominant_source"`
	SourceContribution float64  `json:"source_contribution"`
	ModelConfidence    float64  `json:"model_confidence"`
}

// ForecastAlert is a predicted-conditions alert.
type ForecastAlert struct {
	Type              string `json:"type"`
	Severity          string `json:"severity"`
	Message           string `json:"message"`
	Timeframe         string `json:"timeframe"`
	RecommendedAction string `json:"recommended_action"`
}

// ForecastConditions summarizes the conditions a forecast starts from.
type ForecastConditions struct {
	AQI              float64 `json:"aqi"`
	Category         string  `json:"category"`
	PrimaryPollutant string  `json:"primary_pollutant"`
	Weather          Weather `json:"weather"`
}

// Forecast is the GET /api/forecasting/advanced-forecast snapshot.
type Forecast struct {
	Timestamp         string                     `json:"timestamp"`
	CurrentConditions ForecastConditions         `json:"current_conditions"`
	Forecasts         map[string]HorizonForecast `json:"forecasts"`
	AIInsights        AIInsights                 `json:"ai_insights"`
	Alerts            []ForecastAlert            `json:"alerts"`
}

// MaskRecommendation is the headline of a mask-guidance response.
type MaskRecommendation struct {
	MaskType        string `json:"mask_type"`
	MaskLevel       string `json:"mask_level"`
	Message         string `json:"message"`
	ProtectionLevel string `json:"protection_level"`
}

// PurchaseOption is a place to buy the recommended mask.
type PurchaseOption struct {
	Vendor     string `json:"vendor"`
	Product    string `json:"product"`
	PriceRange string `json:"price_range"`
}

// MaskGuidance is the GET /api/health-guidance/mask-guidance snapshot.
type MaskGuidance struct {
	AQI             int                `json:"aqi"`
	Profile         string             `json:"profile"`
	Recommendation  MaskRecommendation `json:"recommendation"`
	UsageTips       []string           `json:"usage_tips"`
	PurchaseOptions []PurchaseOption   `json:"purchase_options"`
	Timestamp       string             `json:"timestamp"`
}

// Waypoint is one point along a route with its local AQI.
type Waypoint struct {
	Name      string  `json:"name"`
	AQI       float64 `json:"aqi"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Route is one exposure-scored travel option.
type Route struct {
	ID              string     `json:"id"`
	Mode            string     `json:"mode"`
	Origin          string     `json:"origin"`
	Destination     string     `json:"destination"`
	DistanceKM      float64    `json:"distance_km"`
	DurationMinutes float64    `json:"duration_minutes"`
	EstimatedAQI    float64    `json:"estimated_aqi"`
	SafetyScore     float64    `json:"safety_score"`
	Quality         string     `json:"quality"`
	Waypoints       []Waypoint `json:"waypoints"`
	Recommendations []string   `json:"recommendations"`
}

// SafeRoutes is the GET /api/health-guidance/safe-routes snapshot.
type SafeRoutes struct {
	Status      string  `json:"status"`
	Origin      string  `json:"origin"`
	Destination string  `json:"destination"`
	Routes      []Route `json:"routes"`
	BestRoute   *Route  `json:"best_route"`
	Timestamp   string  `json:"timestamp"`
}

// GeoPoint locates a hyperlocal estimate.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	RadiusKM  float64 `json:"radius_km"`
}

// Hyperlocal is the GET /api/advanced/hyperlocal-aqi snapshot.
type Hyperlocal struct {
	CurrentAQI float64    `json:"current_aqi"`
	Category   string     `json:"category"`
	Confidence float64    `json:"confidence"`
	Pollutants Pollutants `json:"pollutants"`
	Location   GeoPoint   `json:"location"`
	Weather    Weather    `json:"weather"`
	Timestamp  string     `json:"timestamp"`
	DataSource string     `json:"data_source"`
}

// Report is the POST /api/citizen-portal/submit-report body.
type Report struct {
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Location    string  `json:"location"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
}

// ReportAck acknowledges a submitted report.
type ReportAck struct {
	Status   string `json:"status"`
	ReportID string `json:"report_id"`
	Message  string `json:"message"`
}
