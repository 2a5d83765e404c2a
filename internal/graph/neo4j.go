// Package graph maintains the pollution source-attribution graph:
// stations observe readings, readings trigger flags and are attributed
// to emission sources.
package graph

import (
	"context"
	"fmt"
	"time"

	"aqidash/internal/flagger"
	"aqidash/internal/store"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphClient defines the interface for graph database operations.
type GraphClient interface {
	Close(ctx context.Context) error
	Reset(ctx context.Context) error
	IngestReading(ctx context.Context, reading *store.Reading, flags *flagger.SnapshotFlags, source string) error
	ExecuteCypher(ctx context.Context, query string) ([]map[string]any, error)
}

// Neo4jClient implements GraphClient for Neo4j.
type Neo4jClient struct {
	driver neo4j.DriverWithContext
	dbName string
}

// NewNeo4jClient creates a new Neo4j client.
func NewNeo4jClient(uri, username, password, dbName string) (*Neo4jClient, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to neo4j: %w", err)
	}

	return &Neo4jClient{
		driver: driver,
		dbName: dbName,
	}, nil
}

func (c *Neo4jClient) Close(ctx context.Context) error {
	return c.driver.Close(ctx)
}

// Reset deletes all data in the graph.
func (c *Neo4jClient) Reset(ctx context.Context) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return tx.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
	})
	return err
}

// IngestReading pushes one evaluated reading into the graph.
func (c *Neo4jClient) IngestReading(ctx context.Context, reading *store.Reading, flags *flagger.SnapshotFlags, source string) error {
	session := c.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: c.dbName})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := mergeStation(ctx, tx, reading.Station); err != nil {
			return nil, err
		}

		readingID, err := createReading(ctx, tx, reading)
		if err != nil {
			return nil, err
		}

		if err := linkStationReading(ctx, tx, reading.Station, readingID); err != nil {
			return nil, err
		}

		if err := createFlags(ctx, tx, readingID, flags); err != nil {
			return nil, err
		}

		if err := attributeSource(ctx, tx, readingID, source); err != nil {
			return nil, err
		}

		return nil, nil
	})

	return err
}

func mergeStation(ctx context.Context, tx neo4j.ManagedTransaction, station string) error {
	query := `
		MERGE (st:Station {name: $name})
		SET st.region = $region
	`
	_, err := tx.Run(ctx, query, map[string]any{
		"name":   station,
		"region": "Delhi-NCR",
	})
	return err
}

func createReading(ctx context.Context, tx neo4j.ManagedTransaction, r *store.Reading) (string, error) {
	query := `
		CREATE (rd:Reading {
			station: $station,
			recorded_at: $recorded_at,
			aqi: $aqi,
			category: $category,

			pm25: $pm25,
			pm10: $pm10,
			no2: $no2,
			wind_speed: $wind_speed,

			provenance: $provenance,
			severity_level: $severity,
			risk_score: $risk_score,
			explanation: $explanation
		})
		RETURN elementId(rd)
	`
	params := map[string]any{
		"station":     r.Station,
		"recorded_at": r.RecordedAt.Format(time.RFC3339),
		"aqi":         r.AQI,
		"category":    r.Category,
		"pm25":        r.PM25,
		"pm10":        r.PM10,
		"no2":         r.NO2,
		"wind_speed":  r.WindSpeed,
		"provenance":  r.Provenance,
		"severity":    r.SeverityLevel,
		"risk_score":  r.RiskScore,
		"explanation": r.Explanation,
	}

	res, err := tx.Run(ctx, query, params)
	if err != nil {
		return "", err
	}
	rec, err := res.Single(ctx)
	if err != nil {
		return "", err
	}
	return rec.Values[0].(string), nil
}

func linkStationReading(ctx context.Context, tx neo4j.ManagedTransaction, station, readingElementID string) error {
	query := `
		MATCH (st:Station {name: $name})
		MATCH (rd:Reading) WHERE elementId(rd) = $reading_id
		CREATE (st)-[:OBSERVED]->(rd)
	`
	_, err := tx.Run(ctx, query, map[string]any{
		"name":       station,
		"reading_id": readingElementID,
	})
	return err
}

func createFlags(ctx context.Context, tx neo4j.ManagedTransaction, readingElementID string, flags *flagger.SnapshotFlags) error {
	if flags == nil {
		return nil
	}

	flagMap := map[string]bool{
		"severe_aqi":     flags.FlagSevereAQI,
		"pm25_critical":  flags.FlagPM25Critical,
		"pm10_critical":  flags.FlagPM10Critical,
		"no2_elevated":   flags.FlagNO2Elevated,
		"stagnant_wind":  flags.FlagStagnantWind,
		"stubble_season": flags.FlagStubbleSeason,
		"data_estimated": flags.FlagDataEstimated,
	}

	for name, triggered := range flagMap {
		if triggered {
			query := `
				MATCH (rd:Reading) WHERE elementId(rd) = $reading_id
				MERGE (f:Flag {name: $name})
				CREATE (rd)-[:TRIGGERED]->(f)
			`
			if _, err := tx.Run(ctx, query, map[string]any{"reading_id": readingElementID, "name": name}); err != nil {
				return err
			}
		}
	}
	return nil
}

func attributeSource(ctx context.Context, tx neo4j.ManagedTransaction, readingElementID, source string) error {
	if source == "" {
		return nil
	}
	query := `
		MATCH (rd:Reading) WHERE elementId(rd) = $reading_id
		MERGE (src:Source {name: $name})
		CREATE (rd)-[:ATTRIBUTED_TO]->(src)
	`
	_, err := tx.Run(ctx, query, map[string]any{
		"reading_id": readingElementID,
		"name":       source,
	})
	return err
}
