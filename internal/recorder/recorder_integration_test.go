package recorder_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"aqidash/internal/api"
	"aqidash/internal/flagger"
	"aqidash/internal/poller"
	"aqidash/internal/recorder"
	"aqidash/internal/store"
)

// TestRecordAndPersist tests end-to-end: update -> flagger -> DuckDB -> graph.
func TestRecordAndPersist(t *testing.T) {
	ctx := context.Background()

	// 1. Create in-memory DuckDB
	client, err := store.NewInMemory()
	if err != nil {
		t.Fatalf("failed to create duckdb client: %v", err)
	}
	defer client.Close()

	repo := store.NewRepo(client.DB())
	if err := repo.Migrate(ctx); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	t.Log("✓ Schema migrated successfully")

	// 2. Create components
	flaggerSvc := flagger.NewFlaggerService(flagger.DefaultConfig())
	mockGraph := &MockGraphClient{}

	rec, err := recorder.New(flaggerSvc, repo, mockGraph, nil)
	if err != nil {
		t.Fatalf("failed to create recorder: %v", err)
	}
	rec.SetDominantSource("Vehicular")

	// 3. Record one severe live reading
	snap := &api.CurrentAQI{
		AQI:      412,
		Category: "Severe",
		Pollutants: api.Pollutants{
			PM25: 185,
			PM10: 320,
			NO2:  95,
		},
		Weather: api.Weather{Temperature: 18, Humidity: 60, WindSpeed: 3},
		Station: api.StationRef{Name: "Central Delhi"},
	}
	u := poller.Update[*api.CurrentAQI]{
		Seq:        1,
		Snapshot:   snap,
		Provenance: poller.Live,
		FetchedAt:  time.Date(2026, 11, 2, 7, 0, 0, 0, time.UTC),
	}
	if err := rec.Record(ctx, u); err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	rec.Close()

	// 4. Verify the evaluated row landed in DuckDB
	stored, err := repo.LatestReading(ctx, "Central Delhi")
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if stored.AQI != 412 || stored.Provenance != "live" {
		t.Errorf("stored = %+v", stored)
	}
	if stored.SeverityLevel != 3 {
		t.Errorf("SeverityLevel = %d, want 3 for a severe reading", stored.SeverityLevel)
	}
	if stored.Explanation == "" {
		t.Error("explanation not persisted")
	}
	t.Logf("✓ Reading persisted: AQI %.0f, risk %d, %q", stored.AQI, stored.RiskScore, stored.Explanation)

	// 5. Verify the graph push carried the evaluated reading
	pushes := mockGraph.Pushes()
	if len(pushes) != 1 {
		t.Fatalf("graph pushes = %d, want 1", len(pushes))
	}
	if pushes[0].Source != "Vehicular" {
		t.Errorf("attributed source = %q, want Vehicular", pushes[0].Source)
	}
	if !pushes[0].Flags.FlagSevereAQI || !pushes[0].Flags.FlagStubbleSeason {
		t.Errorf("flags = %+v, want severe AQI and stubble season (November reading)", pushes[0].Flags)
	}
}

func TestRecordRejectsNilSnapshot(t *testing.T) {
	client, err := store.NewInMemory()
	if err != nil {
		t.Fatalf("failed to create duckdb client: %v", err)
	}
	defer client.Close()

	repo := store.NewRepo(client.DB())
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatal(err)
	}

	rec, err := recorder.New(flagger.NewFlaggerService(flagger.DefaultConfig()), repo, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Close()

	if err := rec.Record(context.Background(), poller.Update[*api.CurrentAQI]{Seq: 1}); err == nil {
		t.Fatal("expected an error for a nil snapshot")
	}
}

func TestNewRequiresPipeline(t *testing.T) {
	if _, err := recorder.New(nil, nil, nil, nil); err == nil {
		t.Fatal("expected an error when flagger and repo are missing")
	}
}

// A nil *store.Repo arriving through the interface must be rejected at
// construction instead of panicking on the first Record.
func TestNewRejectsNilRepoPointer(t *testing.T) {
	flaggerSvc := flagger.NewFlaggerService(flagger.DefaultConfig())
	if _, err := recorder.New(flaggerSvc, (*store.Repo)(nil), nil, nil); err == nil {
		t.Fatal("expected an error for a nil repo pointer")
	}
}

// MockGraphClient records ingests for assertions.
type MockGraphClient struct {
	mu     sync.Mutex
	pushes []GraphPush
}

type GraphPush struct {
	Reading *store.Reading
	Flags   *flagger.SnapshotFlags
	Source  string
}

func (m *MockGraphClient) Close(ctx context.Context) error { return nil }
func (m *MockGraphClient) Reset(ctx context.Context) error { return nil }

func (m *MockGraphClient) IngestReading(ctx context.Context, reading *store.Reading, flags *flagger.SnapshotFlags, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pushes = append(m.pushes, GraphPush{Reading: reading, Flags: flags, Source: source})
	return nil
}

func (m *MockGraphClient) ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error) {
	return nil, nil
}

func (m *MockGraphClient) Pushes() []GraphPush {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GraphPush, len(m.pushes))
	copy(out, m.pushes)
	return out
}
