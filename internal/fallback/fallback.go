// Package fallback synthesizes plausible snapshots when the backend is
// unreachable. Every generator produces the exact shape of the live
// payload so rendering code never branches on provenance; output is
// deterministic for a given seed.
package fallback

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"aqidash/internal/api"
	"aqidash/internal/aqi"
)

// SourceLabel marks synthetic payloads so downstream consumers can
// surface an "estimated" badge.
const SourceLabel = "Estimated"

// areaBaseline is the static Delhi-NCR lookup the backend uses for its
// own fallbacks. Plain data, no logic.
type areaBaseline struct {
	Name    string
	Lat     float64
	Lon     float64
	BaseAQI float64
	Source  string
}

var areaBaselines = []areaBaseline{
	{Name: "Central Delhi", Lat: 28.6139, Lon: 77.2090, BaseAQI: 287, Source: "Vehicular"},
	{Name: "East Delhi", Lat: 28.6358, Lon: 77.3145, BaseAQI: 312, Source: "Industrial"},
	{Name: "West Delhi", Lat: 28.6139, Lon: 77.1025, BaseAQI: 275, Source: "Construction"},
	{Name: "South Delhi", Lat: 28.4595, Lon: 77.0266, BaseAQI: 265, Source: "Mixed"},
	{Name: "North Delhi", Lat: 28.7041, Lon: 77.1025, BaseAQI: 298, Source: "Stubble Burning"},
}

// horizonPreset drives the synthetic forecast curves.
type horizonPreset struct {
	Key        string
	Hours      int
	StepHours  int
	Confidence float64
	DriftPerHr float64
}

var horizonPresets = []horizonPreset{
	{Key: "6_hour", Hours: 6, StepHours: 1, Confidence: 96.5, DriftPerHr: 2.0},
	{Key: "24_hour", Hours: 24, StepHours: 3, Confidence: 89.2, DriftPerHr: 1.2},
	{Key: "72_hour", Hours: 72, StepHours: 6, Confidence: 78.8, DriftPerHr: 0.6},
}

var usageTipsByLevel = map[string][]string{
	"none":      {"No mask needed for outdoor activities"},
	"low":       {"Wash cloth masks daily", "Replace when damp"},
	"medium":    {"Discard surgical masks after single use", "Ensure full nose and mouth coverage"},
	"high":      {"Check the seal around nose and chin", "Replace N95 masks every 2-3 days of use"},
	"very_high": {"Fit-check before every outing", "Limit time outdoors even with a mask"},
	"critical":  {"Use a respirator with an exhalation valve for comfort", "Avoid outdoor exertion entirely"},
}

var purchaseOptionsByLevel = map[string][]api.PurchaseOption{
	"low":       {{Vendor: "Local pharmacy", Product: "Cloth mask", PriceRange: "₹50-200"}},
	"medium":    {{Vendor: "Local pharmacy", Product: "Surgical mask (50 pack)", PriceRange: "₹100-300"}},
	"high":      {{Vendor: "Medical supply", Product: "N95 mask", PriceRange: "₹200-500"}, {Vendor: "Online retail", Product: "KN95 mask (10 pack)", PriceRange: "₹400-900"}},
	"very_high": {{Vendor: "Medical supply", Product: "N99 mask", PriceRange: "₹300-800"}},
	"critical":  {{Vendor: "Industrial supply", Product: "P100 respirator", PriceRange: "₹500-2000"}},
}

// Generator produces synthetic snapshots. Safe for concurrent use by
// multiple pollers.
type Generator struct {
	mu   sync.Mutex
	rng  *rand.Rand
	area areaBaseline
	now  func() time.Time
}

// NewGenerator seeds a generator anchored to the named area. An unknown
// area falls back to Central Delhi.
func NewGenerator(seed int64, area string) *Generator {
	base := areaBaselines[0]
	for _, a := range areaBaselines {
		if a.Name == area {
			base = a
			break
		}
	}
	return &Generator{
		rng:  rand.New(rand.NewSource(seed)),
		area: base,
		now:  time.Now,
	}
}

// jitter returns base scaled by a pseudo-random factor in [1-spread, 1+spread].
func (g *Generator) jitter(base, spread float64) float64 {
	return base * (1 + (g.rng.Float64()*2-1)*spread)
}

// CurrentAQI synthesizes the headline reading.
func (g *Generator) CurrentAQI() *api.CurrentAQI {
	g.mu.Lock()
	defer g.mu.Unlock()

	value := g.jitter(g.area.BaseAQI, 0.05)
	band := aqi.For(value)

	return &api.CurrentAQI{
		AQI:              float64(int(value)),
		Category:         band.Name,
		PrimaryPollutant: "PM2.5",
		HealthAdvisory:   band.Advisory,
		HealthRisk:       band.HealthRisk,
		Color:            band.Color,
		Pollutants: api.Pollutants{
			PM25: g.jitter(value/2.5, 0.08),
			PM10: g.jitter(value/1.2, 0.08),
			SO2:  g.jitter(15.2, 0.10),
			NO2:  g.jitter(45.6, 0.10),
			CO:   g.jitter(1.2, 0.10),
			O3:   g.jitter(32.1, 0.10),
		},
		Weather: api.Weather{
			Temperature:   g.jitter(28.5, 0.05),
			Humidity:      g.jitter(45, 0.05),
			WindSpeed:     g.jitter(8.2, 0.10),
			WindDirection: "NW",
			Pressure:      1013,
		},
		LastUpdated: g.now().Format(time.RFC3339),
		Station: api.StationRef{
			Name:     g.area.Name,
			ID:       "central_delhi",
			Location: "Delhi-NCR",
		},
		Source: SourceLabel,
	}
}

// Stations synthesizes the station table from the area baselines.
func (g *Generator) Stations() []api.Station {
	g.mu.Lock()
	defer g.mu.Unlock()

	stations := make([]api.Station, 0, len(areaBaselines))
	for _, a := range areaBaselines {
		value := int(g.jitter(a.BaseAQI, 0.04))
		trend := "falling"
		if value > 250 {
			trend = "rising"
		} else if value > 150 {
			trend = "stable"
		}
		stations = append(stations, api.Station{
			Name:          a.Name,
			AQI:           fmt.Sprintf("%d", value),
			PrimarySource: a.Source,
			Trend:         trend,
		})
	}
	return stations
}

// Alerts synthesizes the real-time alerts feed from the current area
// baseline.
func (g *Generator) Alerts() *api.AlertsFeed {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	value := g.jitter(g.area.BaseAQI, 0.05)
	band := aqi.For(value)

	alerts := []api.Alert{
		{
			ID:             1,
			Type:           "warning",
			Title:          "Elevated AQI",
			Message:        fmt.Sprintf("AQI around %d (%s) in %s. %s.", int(value), band.Name, g.area.Name, band.Advisory),
			Location:       g.area.Name,
			Severity:       band.HealthRisk,
			Timestamp:      now.Add(-5 * time.Minute).Format(time.RFC3339),
			ActionRequired: aqi.Severity(value) >= aqi.SeverityPoor,
			AffectedAreas:  []string{g.area.Name},
			Recommendations: []string{
				"Monitor AQI levels",
				"Wear an appropriate mask outdoors",
				"Keep windows closed",
			},
		},
	}
	if aqi.Severity(value) >= aqi.SeverityVeryPoor {
		alerts = append(alerts, api.Alert{
			ID:             2,
			Type:           "critical",
			Title:          "Health Emergency Conditions",
			Message:        "Very poor air quality across the region. Avoid outdoor activities.",
			Location:       "Delhi-NCR",
			Severity:       "High",
			Timestamp:      now.Add(-15 * time.Minute).Format(time.RFC3339),
			ActionRequired: true,
			AffectedAreas:  []string{"All areas"},
			Recommendations: []string{
				"Stay indoors",
				"Use air purifiers",
				"Use N95 masks if going out",
			},
		})
	}

	summary := api.AlertSummary{Total: len(alerts)}
	for _, a := range alerts {
		switch a.Type {
		case "critical":
			summary.Critical++
		case "warning":
			summary.Warning++
		default:
			summary.Info++
		}
	}

	return &api.AlertsFeed{
		Alerts:      alerts,
		Summary:     summary,
		LastUpdated: now.Format(time.RFC3339),
	}
}

// Forecast synthesizes all three horizons as a drift away from the area
// baseline.
func (g *Generator) Forecast() *api.Forecast {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	current := g.jitter(g.area.BaseAQI, 0.05)
	band := aqi.For(current)

	horizons := make(map[string]api.HorizonForecast, len(horizonPresets))
	var worstPeak float64
	for _, preset := range horizonPresets {
		drift := preset.DriftPerHr
		if g.rng.Float64() < 0.5 {
			drift = -drift
		}

		var preds []api.Prediction
		peak := current
		for h := preset.StepHours; h <= preset.Hours; h += preset.StepHours {
			value := current + drift*float64(h) + (g.rng.Float64()*2-1)*10
			if value < 40 {
				value = 40
			}
			if value > peak {
				peak = value
			}
			preds = append(preds, api.Prediction{
				Timestamp:  now.Add(time.Duration(h) * time.Hour).Format(time.RFC3339),
				AQI:        float64(int(value)),
				Confidence: preset.Confidence - float64(h)*0.2,
			})
		}

		trend := "decreasing"
		if len(preds) > 0 && preds[len(preds)-1].AQI > current {
			trend = "increasing"
		}
		horizons[preset.Key] = api.HorizonForecast{
			Predictions: preds,
			Confidence:  preset.Confidence,
			PeakAQI:     float64(int(peak)),
			Trend:       trend,
		}
		if peak > worstPeak {
			worstPeak = peak
		}
	}

	var alerts []api.ForecastAlert
	switch {
	case worstPeak > 400:
		alerts = append(alerts, api.ForecastAlert{
			Type:              "emergency",
			Severity:          "critical",
			Message:           fmt.Sprintf("Severe conditions predicted (AQI: %d)", int(worstPeak)),
			Timeframe:         "Next 72 hours",
			RecommendedAction: "Prepare emergency response measures",
		})
	case worstPeak > 300:
		alerts = append(alerts, api.ForecastAlert{
			Type:              "warning",
			Severity:          "high",
			Message:           fmt.Sprintf("Very poor conditions predicted (AQI: %d)", int(worstPeak)),
			Timeframe:         "Next 72 hours",
			RecommendedAction: "Implement health advisories",
		})
	}

	return &api.Forecast{
		Timestamp: now.Format(time.RFC3339),
		CurrentConditions: api.ForecastConditions{
			AQI:              float64(int(current)),
			Category:         band.Name,
			PrimaryPollutant: "PM2.5",
			Weather: api.Weather{
				Temperature:   28.5,
				Humidity:      45,
				WindSpeed:     8.2,
				WindDirection: "NW",
				Pressure:      1013,
			},
		},
		Forecasts: horizons,
		AIInsights: api.AIInsights{
			IdentifiedSources:  []string{g.area.Source, "Vehicular", "Dust"},
			DominantSource:     g.area.Source,
			SourceContribution: g.jitter(35, 0.25),
			ModelConfidence:    91.5,
		},
		Alerts: alerts,
	}
}

// MaskGuidance synthesizes mask advice from the shared banding table.
func (g *Generator) MaskGuidance(aqiValue int, profile string) *api.MaskGuidance {
	g.mu.Lock()
	defer g.mu.Unlock()

	if aqiValue <= 0 {
		aqiValue = int(g.area.BaseAQI)
	}
	if profile == "" {
		profile = "general"
	}
	band := aqi.For(float64(aqiValue))

	tips := usageTipsByLevel[band.MaskLevel]
	if tips == nil {
		tips = []string{"Monitor air quality regularly"}
	}

	return &api.MaskGuidance{
		AQI:     aqiValue,
		Profile: profile,
		Recommendation: api.MaskRecommendation{
			MaskType:        band.MaskType,
			MaskLevel:       band.MaskLevel,
			Message:         fmt.Sprintf("Air quality is %s. %s.", band.Name, band.Advisory),
			ProtectionLevel: band.HealthRisk,
		},
		UsageTips:       tips,
		PurchaseOptions: purchaseOptionsByLevel[band.MaskLevel],
		Timestamp:       g.now().Format(time.RFC3339),
	}
}

// SafeRoutes synthesizes exposure-scored routes for all travel modes.
func (g *Generator) SafeRoutes(origin, destination, mode string) *api.SafeRoutes {
	g.mu.Lock()
	defer g.mu.Unlock()

	if origin == "" {
		origin = "Current Location"
	}
	if destination == "" {
		destination = "Connaught Place, Delhi"
	}
	modes := []string{"metro", "cycling", "walking", "driving"}
	if mode != "" && mode != "all" {
		modes = []string{mode}
	}

	now := g.now()
	routes := make([]api.Route, 0, len(modes))
	for i, m := range modes {
		distance := 5 + g.rng.Float64()*20
		duration := 15 + g.rng.Float64()*45

		var estAQI float64
		switch m {
		case "metro":
			duration *= 0.7
			estAQI = 80 + g.rng.Float64()*40
		case "walking":
			duration *= 2.5
			estAQI = 150 + g.rng.Float64()*100
		case "cycling":
			duration *= 1.8
			estAQI = 120 + g.rng.Float64()*80
		default:
			estAQI = 180 + g.rng.Float64()*120
		}

		safety := 100 - estAQI/5
		if safety < 0 {
			safety = 0
		}
		quality := "Poor"
		switch {
		case safety >= 80:
			quality = "Excellent"
		case safety >= 60:
			quality = "Good"
		case safety >= 40:
			quality = "Moderate"
		}

		var recs []string
		if estAQI > 150 {
			recs = []string{
				fmt.Sprintf("Expected AQI exposure: %d", int(estAQI)),
				"Wear an appropriate mask",
			}
		} else {
			recs = []string{fmt.Sprintf("Route is safe for %s", m)}
		}

		waypoints := make([]api.Waypoint, 0, 3)
		for w := 0; w < 3; w++ {
			waypoints = append(waypoints, api.Waypoint{
				Name:      fmt.Sprintf("Waypoint %d", w+1),
				AQI:       float64(int(estAQI + (g.rng.Float64()*2-1)*30)),
				Latitude:  g.area.Lat + (g.rng.Float64()*2-1)*0.1,
				Longitude: g.area.Lon + (g.rng.Float64()*2-1)*0.1,
			})
		}

		routes = append(routes, api.Route{
			ID:              fmt.Sprintf("route_%s_%d", m, i+1),
			Mode:            m,
			Origin:          origin,
			Destination:     destination,
			DistanceKM:      float64(int(distance*10)) / 10,
			DurationMinutes: float64(int(duration)),
			EstimatedAQI:    float64(int(estAQI)),
			SafetyScore:     float64(int(safety*10)) / 10,
			Quality:         quality,
			Waypoints:       waypoints,
			Recommendations: recs,
		})
	}

	// Highest safety score first, mirroring the backend ordering.
	for i := 0; i < len(routes); i++ {
		for j := i + 1; j < len(routes); j++ {
			if routes[j].SafetyScore > routes[i].SafetyScore {
				routes[i], routes[j] = routes[j], routes[i]
			}
		}
	}

	out := &api.SafeRoutes{
		Status:      "success",
		Origin:      origin,
		Destination: destination,
		Routes:      routes,
		Timestamp:   now.Format(time.RFC3339),
	}
	if len(routes) > 0 {
		out.BestRoute = &routes[0]
	}
	return out
}

// Hyperlocal synthesizes the estimate for a coordinate by distance to
// the nearest area baseline.
func (g *Generator) Hyperlocal(lat, lon, radiusKM float64) *api.Hyperlocal {
	g.mu.Lock()
	defer g.mu.Unlock()

	nearest := areaBaselines[0]
	best := -1.0
	for _, a := range areaBaselines {
		d := (lat-a.Lat)*(lat-a.Lat) + (lon-a.Lon)*(lon-a.Lon)
		if best < 0 || d < best {
			best = d
			nearest = a
		}
	}

	value := g.jitter(nearest.BaseAQI, 0.05)
	band := aqi.For(value)

	return &api.Hyperlocal{
		CurrentAQI: float64(int(value)),
		Category:   band.Name,
		Confidence: 85 + g.rng.Float64()*10,
		Pollutants: api.Pollutants{
			PM25: g.jitter(value/2.5, 0.08),
			PM10: g.jitter(value/1.2, 0.08),
			SO2:  15.2,
			NO2:  g.jitter(45.6, 0.10),
			CO:   1.2,
			O3:   32.1,
		},
		Location: api.GeoPoint{Latitude: lat, Longitude: lon, RadiusKM: radiusKM},
		Weather: api.Weather{
			Temperature:   28.5,
			Humidity:      45,
			WindSpeed:     g.jitter(8.2, 0.10),
			WindDirection: "NW",
			Pressure:      1013,
		},
		Timestamp:  g.now().Format(time.RFC3339),
		DataSource: SourceLabel,
	}
}
