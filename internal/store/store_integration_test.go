package store_test

import (
	"context"
	"testing"
	"time"

	"aqidash/internal/store"
)

// TestInsertAndQueryReadings tests end-to-end persistence against an
// in-memory DuckDB.
func TestInsertAndQueryReadings(t *testing.T) {
	ctx := context.Background()

	client, err := store.NewInMemory(store.WithThreads(2), store.WithMemoryLimit("256MB"))
	if err != nil {
		t.Fatalf("failed to create duckdb client: %v", err)
	}
	defer client.Close()

	repo := store.NewRepo(client.DB())
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	t.Log("✓ Schema migrated successfully")

	base := time.Date(2026, 1, 15, 8, 0, 0, 0, time.UTC)
	readings := []store.Reading{
		{Station: "Central Delhi", RecordedAt: base, AQI: 280, Category: "Poor", PM25: 110, Provenance: "live", SeverityLevel: 2, RiskScore: 20, Explanation: "AQI warning: 280"},
		{Station: "Central Delhi", RecordedAt: base.Add(30 * time.Minute), AQI: 305, Category: "Very Poor", PM25: 125, Provenance: "live", SeverityLevel: 3, RiskScore: 30, Explanation: "AQI critical: 305"},
		{Station: "Central Delhi", RecordedAt: base.Add(time.Hour), AQI: 312, Category: "Very Poor", PM25: 130, Provenance: "estimated"},
		{Station: "East Delhi", RecordedAt: base.Add(time.Hour), AQI: 330, Category: "Very Poor", PM25: 140, Provenance: "live", SeverityLevel: 3, RiskScore: 30},
	}
	for i := range readings {
		id, err := repo.InsertReading(ctx, &readings[i])
		if err != nil {
			t.Fatalf("insert %d failed: %v", i, err)
		}
		if id <= 0 {
			t.Errorf("insert %d returned id %d", i, id)
		}
	}

	// Newest first, station filter applied.
	got, err := repo.RecentReadings(ctx, "Central Delhi", 10)
	if err != nil {
		t.Fatalf("RecentReadings failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(readings) = %d, want 3", len(got))
	}
	if !got[0].RecordedAt.After(got[1].RecordedAt) {
		t.Errorf("readings not ordered newest first: %v then %v", got[0].RecordedAt, got[1].RecordedAt)
	}
	if got[0].Provenance != "estimated" {
		t.Errorf("newest provenance = %q, want estimated", got[0].Provenance)
	}

	latest, err := repo.LatestReading(ctx, "East Delhi")
	if err != nil {
		t.Fatalf("LatestReading failed: %v", err)
	}
	if latest.AQI != 330 {
		t.Errorf("latest East Delhi AQI = %v, want 330", latest.AQI)
	}

	// Trend covers only live rows; the estimated one must not count.
	trend, err := repo.TrendAnalysis(ctx, "Central Delhi", 100000*time.Hour)
	if err != nil {
		t.Fatalf("TrendAnalysis failed: %v", err)
	}
	if trend.Samples != 2 {
		t.Errorf("trend samples = %d, want 2 live readings", trend.Samples)
	}
	if trend.MinAQI != 280 || trend.MaxAQI != 305 {
		t.Errorf("trend min/max = %v/%v", trend.MinAQI, trend.MaxAQI)
	}
}

func TestLatestReadingEmptyStation(t *testing.T) {
	ctx := context.Background()

	client, err := store.NewInMemory()
	if err != nil {
		t.Fatalf("failed to create duckdb client: %v", err)
	}
	defer client.Close()

	repo := store.NewRepo(client.DB())
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	if _, err := repo.LatestReading(ctx, "Nowhere"); err == nil {
		t.Fatal("expected an error for a station with no readings")
	}
}
