// Package recorder runs the persistence pipeline for headline readings:
// Flagger -> DuckDB -> Neo4j. Pollers own the timing; the recorder only
// reacts to the updates they deliver.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"aqidash/internal/api"
	"aqidash/internal/flagger"
	"aqidash/internal/graph"
	"aqidash/internal/poller"
	"aqidash/internal/store"
)

// ReadingRepository is the slice of the store the recorder needs.
type ReadingRepository interface {
	InsertReading(ctx context.Context, reading *store.Reading) (int64, error)
}

// Recorder persists evaluated readings and mirrors them into the graph.
type Recorder struct {
	flagger     *flagger.FlaggerService
	repo        ReadingRepository
	graphClient graph.GraphClient
	logger      *log.Logger
	now         func() time.Time

	mu             sync.Mutex
	dominantSource string

	wg sync.WaitGroup
}

// New creates a recorder. The graph client may be nil.
func New(f *flagger.FlaggerService, r ReadingRepository, g graph.GraphClient, logger *log.Logger) (*Recorder, error) {
	if f == nil || r == nil {
		return nil, errors.New("flagger and repo are required")
	}
	// A nil *store.Repo boxed into the interface slips past the check
	// above and would only surface as a panic inside Record.
	if rr, ok := r.(*store.Repo); ok && rr == nil {
		return nil, errors.New("flagger and repo are required")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{
		flagger:     f,
		repo:        r,
		graphClient: g,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Record evaluates and persists one headline update. Substituted
// snapshots are stored too; their provenance column keeps them out of
// trend analysis.
func (r *Recorder) Record(ctx context.Context, u poller.Update[*api.CurrentAQI]) error {
	snap := u.Snapshot
	if snap == nil {
		return errors.New("nil snapshot")
	}

	at := u.FetchedAt
	if at.IsZero() {
		at = r.now()
	}
	flags := r.flagger.Flag(snap, u.Provenance, at)

	reading := &store.Reading{
		Station:       snap.Station.Name,
		RecordedAt:    at,
		AQI:           snap.AQI,
		Category:      snap.Category,
		PM25:          snap.Pollutants.PM25,
		PM10:          snap.Pollutants.PM10,
		NO2:           snap.Pollutants.NO2,
		SO2:           snap.Pollutants.SO2,
		CO:            snap.Pollutants.CO,
		O3:            snap.Pollutants.O3,
		Temperature:   snap.Weather.Temperature,
		Humidity:      snap.Weather.Humidity,
		WindSpeed:     snap.Weather.WindSpeed,
		Provenance:    u.Provenance.String(),
		SeverityLevel: flags.SeverityLevel,
		RiskScore:     flags.RiskScore,
		Explanation:   flags.Explanation,
	}

	if _, err := r.repo.InsertReading(ctx, reading); err != nil {
		return fmt.Errorf("persist reading: %w", err)
	}

	// Push to the graph asynchronously. A detached context lets the
	// push finish even if the caller's context ends first.
	if r.graphClient != nil {
		r.mu.Lock()
		source := r.dominantSource
		r.mu.Unlock()
		r.wg.Add(1)
		go func() {
			defer r.wg.Done()
			pushCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := r.graphClient.IngestReading(pushCtx, reading, flags, source); err != nil {
				r.logger.Printf("graph ingest failed: %v", err)
			}
		}()
	}

	return nil
}

// SetDominantSource updates the pollution source future readings are
// attributed to in the graph. The forecast feed supplies it.
func (r *Recorder) SetDominantSource(source string) {
	r.mu.Lock()
	r.dominantSource = source
	r.mu.Unlock()
}

// Close waits for outstanding graph pushes and closes the graph client.
func (r *Recorder) Close() {
	r.wg.Wait()
	if r.graphClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		r.graphClient.Close(ctx)
	}
}
