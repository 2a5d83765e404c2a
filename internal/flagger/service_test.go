package flagger

import (
	"strings"
	"testing"
	"time"

	"aqidash/internal/api"
	"aqidash/internal/poller"
)

func reading(aqi, pm25, pm10, no2, wind float64) *api.CurrentAQI {
	return &api.CurrentAQI{
		AQI: aqi,
		Pollutants: api.Pollutants{
			PM25: pm25,
			PM10: pm10,
			NO2:  no2,
		},
		Weather: api.Weather{WindSpeed: wind},
	}
}

var (
	summerDay  = time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)  // outside the burn window
	octoberDay = time.Date(2026, 10, 20, 12, 0, 0, 0, time.UTC) // inside the burn window
)

func TestFlagThresholds(t *testing.T) {
	fs := NewFlaggerService(DefaultConfig())

	tests := []struct {
		name         string
		in           *api.CurrentAQI
		wantSevere   bool
		wantPM25     bool
		wantStagnant bool
		wantSeverity int
	}{
		{
			name:         "clean air raises nothing",
			in:           reading(45, 20, 40, 30, 12),
			wantSeverity: 0,
		},
		{
			name:         "warning band aqi",
			in:           reading(250, 50, 80, 40, 10),
			wantSeverity: 2,
		},
		{
			name:         "severe aqi",
			in:           reading(412, 50, 80, 40, 10),
			wantSevere:   true,
			wantSeverity: 3,
		},
		{
			name:         "pm25 critical alone",
			in:           reading(180, 150, 80, 40, 10),
			wantPM25:     true,
			wantSeverity: 3,
		},
		{
			name:         "stagnant wind only",
			in:           reading(90, 30, 60, 40, 2),
			wantStagnant: true,
			wantSeverity: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := fs.Flag(tt.in, poller.Live, summerDay)
			if f.FlagSevereAQI != tt.wantSevere {
				t.Errorf("FlagSevereAQI = %v, want %v", f.FlagSevereAQI, tt.wantSevere)
			}
			if f.FlagPM25Critical != tt.wantPM25 {
				t.Errorf("FlagPM25Critical = %v, want %v", f.FlagPM25Critical, tt.wantPM25)
			}
			if f.FlagStagnantWind != tt.wantStagnant {
				t.Errorf("FlagStagnantWind = %v, want %v", f.FlagStagnantWind, tt.wantStagnant)
			}
			if f.SeverityLevel != tt.wantSeverity {
				t.Errorf("SeverityLevel = %d, want %d", f.SeverityLevel, tt.wantSeverity)
			}
			if f.RiskScore < f.SeverityLevel*10 {
				t.Errorf("RiskScore = %d below severity floor", f.RiskScore)
			}
		})
	}
}

func TestStubbleSeasonWindow(t *testing.T) {
	fs := NewFlaggerService(DefaultConfig())
	in := reading(150, 40, 70, 40, 10)

	if f := fs.Flag(in, poller.Live, summerDay); f.FlagStubbleSeason {
		t.Error("stubble season flagged in June")
	}
	if f := fs.Flag(in, poller.Live, octoberDay); !f.FlagStubbleSeason {
		t.Error("stubble season not flagged in late October")
	}
}

func TestEstimatedProvenanceFlagged(t *testing.T) {
	fs := NewFlaggerService(DefaultConfig())
	in := reading(45, 20, 40, 30, 12)

	tests := []struct {
		prov poller.Provenance
		want bool
	}{
		{poller.Live, false},
		{poller.Cached, true},
		{poller.Estimated, true},
	}
	for _, tt := range tests {
		f := fs.Flag(in, tt.prov, summerDay)
		if f.FlagDataEstimated != tt.want {
			t.Errorf("prov %v: FlagDataEstimated = %v, want %v", tt.prov, f.FlagDataEstimated, tt.want)
		}
		if tt.want && f.SeverityLevel != 0 {
			t.Errorf("prov %v: provenance alone raised severity %d", tt.prov, f.SeverityLevel)
		}
	}
}

func TestExplanationAggregation(t *testing.T) {
	fs := NewFlaggerService(DefaultConfig())

	// AQI critical, PM2.5 critical, PM10 warning, stagnant wind.
	f := fs.Flag(reading(420, 180, 150, 40, 2), poller.Live, summerDay)
	if !strings.HasPrefix(f.Explanation, "AQI critical") {
		t.Errorf("Explanation = %q, want the AQI finding first", f.Explanation)
	}
	if !strings.Contains(f.Explanation, "(+3 more)") {
		t.Errorf("Explanation = %q, want a (+3 more) suffix", f.Explanation)
	}
}

func TestCompoundRisk(t *testing.T) {
	fs := NewFlaggerService(DefaultConfig())

	base := fs.Flag(reading(420, 40, 70, 40, 10), poller.Live, summerDay)
	compound := fs.Flag(reading(420, 40, 70, 40, 2), poller.Live, summerDay)
	if compound.RiskScore <= base.RiskScore {
		t.Errorf("stagnant wind during severe AQI should raise risk: %d vs %d", compound.RiskScore, base.RiskScore)
	}
}
