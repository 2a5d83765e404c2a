package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Repo persists readings and answers history queries.
type Repo struct {
	db *sql.DB
}

// NewRepo wraps an open database handle.
func NewRepo(db *sql.DB) *Repo {
	return &Repo{db: db}
}

// Migrate creates the schema if it does not exist.
func (r *Repo) Migrate(ctx context.Context) error {
	const schema = `
		CREATE SEQUENCE IF NOT EXISTS reading_id_seq;
		CREATE TABLE IF NOT EXISTS aqi_readings (
			reading_id     BIGINT PRIMARY KEY DEFAULT nextval('reading_id_seq'),
			station        VARCHAR NOT NULL,
			recorded_at    TIMESTAMP NOT NULL,
			aqi            DOUBLE NOT NULL,
			category       VARCHAR NOT NULL,
			pm25           DOUBLE,
			pm10           DOUBLE,
			no2            DOUBLE,
			so2            DOUBLE,
			co             DOUBLE,
			o3             DOUBLE,
			temperature    DOUBLE,
			humidity       DOUBLE,
			wind_speed     DOUBLE,
			provenance     VARCHAR NOT NULL,
			severity_level INTEGER NOT NULL DEFAULT 0,
			risk_score     INTEGER NOT NULL DEFAULT 0,
			explanation    VARCHAR
		);
	`
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate failed: %w", err)
	}
	return nil
}

// InsertReading persists one reading and returns its id.
func (r *Repo) InsertReading(ctx context.Context, reading *Reading) (int64, error) {
	const query = `
		INSERT INTO aqi_readings (
			station, recorded_at, aqi, category,
			pm25, pm10, no2, so2, co, o3,
			temperature, humidity, wind_speed,
			provenance, severity_level, risk_score, explanation
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING reading_id
	`
	var id int64
	err := r.db.QueryRowContext(ctx, query,
		reading.Station, reading.RecordedAt, reading.AQI, reading.Category,
		reading.PM25, reading.PM10, reading.NO2, reading.SO2, reading.CO, reading.O3,
		reading.Temperature, reading.Humidity, reading.WindSpeed,
		reading.Provenance, reading.SeverityLevel, reading.RiskScore, reading.Explanation,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert reading failed: %w", err)
	}
	return id, nil
}

// RecentReadings retrieves the latest readings, newest first, optionally
// filtered by station.
func (r *Repo) RecentReadings(ctx context.Context, station string, limit int) ([]Reading, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 500 {
		limit = 500 // Safety limit
	}

	query := `
		SELECT
			reading_id, station, recorded_at, aqi, category,
			pm25, pm10, no2, so2, co, o3,
			temperature, humidity, wind_speed,
			provenance, severity_level, risk_score,
			COALESCE(explanation, '') as explanation
		FROM aqi_readings
		WHERE 1=1
	`
	args := []interface{}{}
	if station != "" {
		query += " AND station = ?"
		args = append(args, station)
	}
	query += " ORDER BY recorded_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query readings failed: %w", err)
	}
	defer rows.Close()

	readings := []Reading{}
	for rows.Next() {
		var rd Reading
		err := rows.Scan(
			&rd.ReadingID, &rd.Station, &rd.RecordedAt, &rd.AQI, &rd.Category,
			&rd.PM25, &rd.PM10, &rd.NO2, &rd.SO2, &rd.CO, &rd.O3,
			&rd.Temperature, &rd.Humidity, &rd.WindSpeed,
			&rd.Provenance, &rd.SeverityLevel, &rd.RiskScore, &rd.Explanation,
		)
		if err != nil {
			return nil, fmt.Errorf("scan reading failed: %w", err)
		}
		readings = append(readings, rd)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return readings, nil
}

// LatestReading retrieves the most recent reading for a station.
func (r *Repo) LatestReading(ctx context.Context, station string) (*Reading, error) {
	readings, err := r.RecentReadings(ctx, station, 1)
	if err != nil {
		return nil, err
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("no readings found")
	}
	return &readings[0], nil
}

// TrendAnalysis summarizes the AQI movement for a station across the
// given window. Only live readings contribute; substituted values would
// bias the trend toward the synthetic baselines.
func (r *Repo) TrendAnalysis(ctx context.Context, station string, window time.Duration) (*Trend, error) {
	since := time.Now().Add(-window)

	query := `
		SELECT recorded_at, aqi
		FROM aqi_readings
		WHERE station = ? AND recorded_at >= ? AND provenance = 'live'
		ORDER BY recorded_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, station, since)
	if err != nil {
		return nil, fmt.Errorf("query trend failed: %w", err)
	}
	defer rows.Close()

	var times []time.Time
	var values []float64
	for rows.Next() {
		var at time.Time
		var v float64
		if err := rows.Scan(&at, &v); err != nil {
			return nil, fmt.Errorf("scan trend row failed: %w", err)
		}
		times = append(times, at)
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	trend := computeTrend(values)
	trend.Station = station
	if n := len(times); n > 0 {
		trend.WindowStart = times[0]
		trend.WindowEnd = times[n-1]
	}
	return trend, nil
}

// computeTrend derives the trend summary from an ordered value series.
// The direction compares the means of the first and last thirds; moves
// within ±5% count as stable.
func computeTrend(values []float64) *Trend {
	t := &Trend{Samples: len(values), Direction: "stable"}
	if len(values) == 0 {
		return t
	}

	t.MinAQI = values[0]
	t.MaxAQI = values[0]
	sum := 0.0
	for _, v := range values {
		sum += v
		if v < t.MinAQI {
			t.MinAQI = v
		}
		if v > t.MaxAQI {
			t.MaxAQI = v
		}
	}
	t.MeanAQI = sum / float64(len(values))

	if len(values) < 3 {
		return t
	}

	third := len(values) / 3
	var headSum, tailSum float64
	for _, v := range values[:third] {
		headSum += v
	}
	for _, v := range values[len(values)-third:] {
		tailSum += v
	}
	head := headSum / float64(third)
	tail := tailSum / float64(third)
	if head == 0 {
		return t
	}

	t.ChangePct = (tail - head) / head * 100
	switch {
	case t.ChangePct > 5:
		t.Direction = "worsening"
	case t.ChangePct < -5:
		t.Direction = "improving"
	}
	return t
}
