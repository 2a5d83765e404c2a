package store

import (
	"testing"
)

func TestComputeTrendDirections(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   string
	}{
		{
			name:   "empty series",
			values: nil,
			want:   "stable",
		},
		{
			name:   "too few samples",
			values: []float64{200, 400},
			want:   "stable",
		},
		{
			name:   "flat series",
			values: []float64{250, 252, 248, 251, 249, 250},
			want:   "stable",
		},
		{
			name:   "rising series",
			values: []float64{200, 220, 250, 280, 310, 340},
			want:   "worsening",
		},
		{
			name:   "falling series",
			values: []float64{340, 310, 280, 250, 220, 200},
			want:   "improving",
		},
		{
			name:   "small move within tolerance",
			values: []float64{300, 301, 302, 304, 306, 308},
			want:   "stable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeTrend(tt.values)
			if got.Direction != tt.want {
				t.Errorf("Direction = %q, want %q (change %.1f%%)", got.Direction, tt.want, got.ChangePct)
			}
			if got.Samples != len(tt.values) {
				t.Errorf("Samples = %d, want %d", got.Samples, len(tt.values))
			}
		})
	}
}

func TestComputeTrendStats(t *testing.T) {
	got := computeTrend([]float64{100, 200, 300})
	if got.MeanAQI != 200 {
		t.Errorf("MeanAQI = %v, want 200", got.MeanAQI)
	}
	if got.MinAQI != 100 || got.MaxAQI != 300 {
		t.Errorf("Min/Max = %v/%v, want 100/300", got.MinAQI, got.MaxAQI)
	}
}
