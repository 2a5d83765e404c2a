package flagger

import (
	"fmt"
	"time"

	"aqidash/internal/api"
	"aqidash/internal/poller"
)

// SnapshotFlags is the evaluated risk profile of one reading.
type SnapshotFlags struct {
	FlagSevereAQI     bool
	FlagPM25Critical  bool
	FlagPM10Critical  bool
	FlagNO2Elevated   bool
	FlagStagnantWind  bool
	FlagStubbleSeason bool
	FlagDataEstimated bool

	SeverityLevel int
	Explanation   string
	RiskScore     int
}

// FlaggerService evaluates readings against configured thresholds
type FlaggerService struct {
	cfg Config
}

func NewFlaggerService(cfg Config) *FlaggerService {
	return &FlaggerService{cfg: cfg}
}

func (fs *FlaggerService) Flag(s *api.CurrentAQI, prov poller.Provenance, at time.Time) *SnapshotFlags {
	f := &SnapshotFlags{}
	var explanations []string

	// 1. Headline AQI
	if s.AQI > fs.cfg.AQI.Critical {
		f.FlagSevereAQI = true
		f.SeverityLevel = 3
		explanations = append(explanations, fmt.Sprintf("AQI critical: %.0f", s.AQI))
	} else if s.AQI > fs.cfg.AQI.Warning {
		f.SeverityLevel = max(f.SeverityLevel, 2)
		explanations = append(explanations, fmt.Sprintf("AQI warning: %.0f", s.AQI))
	}

	// 2. PM2.5
	if s.Pollutants.PM25 > fs.cfg.PM25.Critical {
		f.FlagPM25Critical = true
		f.SeverityLevel = 3
		explanations = append(explanations, fmt.Sprintf("PM2.5 critical: %.1f µg/m³", s.Pollutants.PM25))
	} else if s.Pollutants.PM25 > fs.cfg.PM25.Warning {
		f.SeverityLevel = max(f.SeverityLevel, 2)
		explanations = append(explanations, fmt.Sprintf("PM2.5 warning: %.1f µg/m³", s.Pollutants.PM25))
	}

	// 3. PM10
	if s.Pollutants.PM10 > fs.cfg.PM10.Critical {
		f.FlagPM10Critical = true
		f.SeverityLevel = 3
		explanations = append(explanations, fmt.Sprintf("PM10 critical: %.1f µg/m³", s.Pollutants.PM10))
	} else if s.Pollutants.PM10 > fs.cfg.PM10.Warning {
		f.SeverityLevel = max(f.SeverityLevel, 2)
		explanations = append(explanations, fmt.Sprintf("PM10 warning: %.1f µg/m³", s.Pollutants.PM10))
	}

	// 4. NO2
	if s.Pollutants.NO2 > fs.cfg.NO2.Critical {
		f.FlagNO2Elevated = true
		f.SeverityLevel = max(f.SeverityLevel, 2)
		explanations = append(explanations, fmt.Sprintf("NO2 elevated: %.1f µg/m³", s.Pollutants.NO2))
	}

	// 5. Wind stagnation traps pollutants near the surface
	if s.Weather.WindSpeed > 0 && s.Weather.WindSpeed < fs.cfg.StagnantWind {
		f.FlagStagnantWind = true
		f.SeverityLevel = max(f.SeverityLevel, 1)
		explanations = append(explanations, fmt.Sprintf("Stagnant wind: %.1f km/h", s.Weather.WindSpeed))
	}

	// 6. Seasonal stubble burning window
	day := at.YearDay()
	if day >= fs.cfg.StubbleSeasonStart && day <= fs.cfg.StubbleSeasonEnd {
		f.FlagStubbleSeason = true
	}

	// 7. Provenance; synthetic data is flagged but carries no severity
	if prov != poller.Live {
		f.FlagDataEstimated = true
	}

	// Aggregate
	if len(explanations) > 0 {
		f.Explanation = explanations[0]
		if len(explanations) > 1 {
			f.Explanation += fmt.Sprintf(" (+%d more)", len(explanations)-1)
		}
	}

	f.RiskScore = f.SeverityLevel * 10
	if f.FlagSevereAQI && f.FlagStagnantWind {
		f.RiskScore += 10
	}
	if f.RiskScore > 100 {
		f.RiskScore = 100
	}

	return f
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
