package report

import (
	"testing"

	"aqidash/internal/api"
	"aqidash/internal/flagger"
	"aqidash/internal/poller"
)

func sampleCurrent() *api.CurrentAQI {
	return &api.CurrentAQI{
		AQI:              312,
		Category:         "Very Poor",
		PrimaryPollutant: "PM2.5",
		HealthAdvisory:   "Avoid outdoor activities",
		Pollutants:       api.Pollutants{PM25: 125, PM10: 260, NO2: 48, SO2: 15, CO: 1.2, O3: 32},
		Weather:          api.Weather{Temperature: 18, Humidity: 62, WindSpeed: 4, WindDirection: "NW"},
		Station:          api.StationRef{Name: "East Delhi"},
	}
}

func TestBuildHeadlineAndSections(t *testing.T) {
	r := Build(sampleCurrent(), nil, nil, nil, poller.Live)

	if r.Headline != "AQI 312 (Very Poor)" {
		t.Errorf("Headline = %q", r.Headline)
	}
	if r.Provenance != "live" {
		t.Errorf("Provenance = %q", r.Provenance)
	}

	cur := r.SectionByID(SectionCurrent)
	if cur == nil {
		t.Fatal("missing current section")
	}
	if it := cur.ItemByKey("aqi"); it == nil || it.Value != 312 || it.Status != "Very Poor" {
		t.Errorf("aqi item = %+v", it)
	}

	pol := r.SectionByID(SectionPollutants)
	if pol == nil || len(pol.Items) != 6 {
		t.Fatalf("pollutants section = %+v", pol)
	}
	if it := pol.ItemByKey("pm25"); it == nil || it.Value != 125 {
		t.Errorf("pm25 item = %+v", it)
	}
}

func TestBuildStationsAndAlerts(t *testing.T) {
	stations := []api.Station{
		{Name: "Central Delhi", AQI: "287", PrimarySource: "Vehicular", Trend: "rising"},
		{Name: "South Delhi", AQI: "265", PrimarySource: "Mixed", Trend: "stable"},
	}
	alerts := &api.AlertsFeed{
		Alerts: []api.Alert{
			{ID: 1, Type: "warning", Title: "Elevated AQI", Message: "AQI above 300 in East Delhi"},
		},
	}

	r := Build(sampleCurrent(), stations, alerts, nil, poller.Live)

	st := r.SectionByID(SectionStations)
	if len(st.Items) != 2 {
		t.Fatalf("station items = %d, want 2", len(st.Items))
	}
	if it := st.ItemByKey("central_delhi"); it == nil || it.Status != "rising" {
		t.Errorf("central delhi item = %+v", it)
	}

	al := r.SectionByID(SectionAlerts)
	if len(al.Items) != 1 || al.Items[0].Status != "warning" {
		t.Errorf("alert items = %+v", al.Items)
	}
}

func TestBuildCarriesFlags(t *testing.T) {
	flags := &flagger.SnapshotFlags{
		FlagSevereAQI:     true,
		FlagStubbleSeason: true,
		SeverityLevel:     3,
		Explanation:       "AQI critical: 412 (+1 more)",
		RiskScore:         30,
	}

	r := Build(sampleCurrent(), nil, nil, flags, poller.Estimated)

	if r.RiskScore != 30 {
		t.Errorf("RiskScore = %d", r.RiskScore)
	}
	if r.Provenance != "estimated" {
		t.Errorf("Provenance = %q", r.Provenance)
	}

	cur := r.SectionByID(SectionCurrent)
	findings := cur.ItemByKey("findings")
	if findings == nil || findings.Status != "critical" {
		t.Errorf("findings item = %+v", findings)
	}
	if cur.ItemByKey("stubble_season") == nil {
		t.Error("stubble season item missing")
	}
}

func TestBuildNilCurrent(t *testing.T) {
	r := Build(nil, nil, nil, nil, poller.Estimated)
	if r.Headline != "" {
		t.Errorf("Headline = %q, want empty", r.Headline)
	}
	if got := len(r.Sections); got != 5 {
		t.Errorf("sections = %d, want all 5 present even when empty", got)
	}
}
