package flagger

// Thresholds defines warning and critical levels for a metric
type Thresholds struct {
	Warning  float64
	Critical float64
}

type Config struct {
	AQI  Thresholds
	PM25 Thresholds // µg/m³
	PM10 Thresholds // µg/m³
	NO2  Thresholds // µg/m³

	// StagnantWind flags dispersion failure when wind speed (km/h)
	// drops below it.
	StagnantWind float64

	// Stubble burning season window as days of the year (early October
	// through end of November).
	StubbleSeasonStart int
	StubbleSeasonEnd   int
}

func DefaultConfig() Config {
	return Config{
		AQI:                Thresholds{Warning: 200.0, Critical: 300.0},
		PM25:               Thresholds{Warning: 60.0, Critical: 120.0},
		PM10:               Thresholds{Warning: 100.0, Critical: 250.0},
		NO2:                Thresholds{Warning: 80.0, Critical: 180.0},
		StagnantWind:       5.0,
		StubbleSeasonStart: 280,
		StubbleSeasonEnd:   334,
	}
}
