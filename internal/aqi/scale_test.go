package aqi

import "testing"

func TestCategory(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{0, "Good"},
		{50, "Good"},
		{51, "Satisfactory"},
		{100, "Satisfactory"},
		{150, "Moderate"},
		{200, "Moderate"},
		{245, "Poor"},
		{300, "Poor"},
		{312, "Very Poor"},
		{400, "Very Poor"},
		{401, "Severe"},
		{999, "Severe"},
		{-5, "Good"},
	}

	for _, tt := range tests {
		if got := Category(tt.value); got != tt.expected {
			t.Errorf("Category(%v) = %q; want %q", tt.value, got, tt.expected)
		}
	}
}

func TestSeverityOrdering(t *testing.T) {
	values := []float64{25, 75, 150, 250, 350, 450}
	prev := -1
	for _, v := range values {
		s := Severity(v)
		if s <= prev {
			t.Errorf("Severity(%v) = %d; expected strictly increasing (prev %d)", v, s, prev)
		}
		prev = s
	}
	if Severity(450) != SeveritySevere {
		t.Errorf("Severity(450) = %d; want SeveritySevere", Severity(450))
	}
}

func TestBandFieldsPopulated(t *testing.T) {
	for _, b := range Bands {
		if b.Name == "" || b.Color == "" || b.Advisory == "" || b.MaskType == "" {
			t.Errorf("band %+v has empty guidance fields", b)
		}
	}
}
