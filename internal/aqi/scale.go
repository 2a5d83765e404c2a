// Package aqi holds the fixed AQI banding tables shared by the live and
// fallback data paths. Everything here is pure lookup logic; keeping a
// single table guarantees a value renders the same regardless of where
// it came from.
package aqi

// Band describes one segment of the AQI scale with its associated
// health guidance.
type Band struct {
	Name       string
	Max        float64 // inclusive upper bound; the last band has Max = +Inf sentinel 0
	Color      string
	HealthRisk string
	Advisory   string
	MaskLevel  string
	MaskType   string
}

const (
	SeverityGood = iota
	SeveritySatisfactory
	SeverityModerate
	SeverityPoor
	SeverityVeryPoor
	SeveritySevere
)

// Bands is the CPCB scale. Order matters: For() walks it top to bottom.
var Bands = []Band{
	{
		Name:       "Good",
		Max:        50,
		Color:      "#00e400",
		HealthRisk: "Minimal",
		Advisory:   "Enjoy outdoor activities",
		MaskLevel:  "none",
		MaskType:   "No mask required",
	},
	{
		Name:       "Satisfactory",
		Max:        100,
		Color:      "#a3c853",
		HealthRisk: "Low",
		Advisory:   "Sensitive groups should limit prolonged exertion",
		MaskLevel:  "low",
		MaskType:   "Cloth mask (optional)",
	},
	{
		Name:       "Moderate",
		Max:        200,
		Color:      "#fff833",
		HealthRisk: "Moderate",
		Advisory:   "Children and elderly should limit outdoor activities",
		MaskLevel:  "medium",
		MaskType:   "Surgical mask",
	},
	{
		Name:       "Poor",
		Max:        300,
		Color:      "#f29c33",
		HealthRisk: "High",
		Advisory:   "Everyone should avoid prolonged outdoor exertion",
		MaskLevel:  "high",
		MaskType:   "N95 or KN95 mask",
	},
	{
		Name:       "Very Poor",
		Max:        400,
		Color:      "#e93f33",
		HealthRisk: "Very High",
		Advisory:   "Stay indoors, use air purifiers",
		MaskLevel:  "very_high",
		MaskType:   "N95 or N99 mask",
	},
	{
		Name:       "Severe",
		Max:        0, // open-ended
		Color:      "#af2d24",
		HealthRisk: "Severe",
		Advisory:   "Emergency conditions - avoid all outdoor activities",
		MaskLevel:  "critical",
		MaskType:   "N99 or P100 respirator",
	},
}

// For returns the band a value falls into. Negative values clamp to the
// first band.
func For(value float64) Band {
	for i := 0; i < len(Bands)-1; i++ {
		if value <= Bands[i].Max {
			return Bands[i]
		}
	}
	return Bands[len(Bands)-1]
}

// Category returns the band name for a value.
func Category(value float64) string {
	return For(value).Name
}

// Severity returns the band index (SeverityGood..SeveritySevere).
func Severity(value float64) int {
	for i := 0; i < len(Bands)-1; i++ {
		if value <= Bands[i].Max {
			return i
		}
	}
	return SeveritySevere
}
