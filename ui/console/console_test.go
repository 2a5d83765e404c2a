package console

import (
	"bytes"
	"strings"
	"testing"

	"aqidash/internal/report"
)

func TestColorFor(t *testing.T) {
	tests := []struct {
		status   string
		expected string
	}{
		{"Severe", colorRed},
		{"Very Poor", colorRed},
		{"critical", colorRed},
		{"Poor", colorYellow},
		{"warning", colorYellow},
		{"rising", colorYellow},
		{"Moderate", colorYellow},
		{"Good", colorGreen},
		{"stable", colorGreen},
		{"", colorGreen},
	}

	for _, tt := range tests {
		result := colorFor(tt.status)
		if result != tt.expected {
			t.Errorf("colorFor(%q) = %q; want %q", tt.status, result, tt.expected)
		}
	}
}

func TestPrint(t *testing.T) {
	r := report.Report{
		Headline:   "AQI 312 (Very Poor)",
		Provenance: "estimated",
		RiskScore:  30,
		Sections: []report.Section{
			{
				ID:    report.SectionCurrent,
				Title: "Air Quality",
				Items: []report.Item{
					{Label: "AQI", Value: 312, Status: "Very Poor"},
					{Label: "Advisory", Note: "Avoid outdoor activities, wear an N95 mask if going out"},
					{Label: "A Label That Exceeds Twenty", Value: 1},
				},
			},
			{ID: report.SectionStations, Title: "Stations"}, // empty, should be skipped
		},
	}

	var buf bytes.Buffer
	defer func() {
		if rec := recover(); rec != nil {
			t.Errorf("Print panicked: %v", rec)
		}
	}()
	Print(&buf, r)

	out := buf.String()
	if !strings.Contains(out, "AQI 312 (Very Poor)") {
		t.Error("headline missing from output")
	}
	if !strings.Contains(out, "[ESTIMATED]") {
		t.Error("provenance tag missing from output")
	}
	if !strings.Contains(out, "risk 30/100") {
		t.Error("summary risk missing from output")
	}
	if strings.Contains(out, "─ Stations") {
		t.Error("empty section should be skipped")
	}
}
