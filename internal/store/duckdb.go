// Package store provides DuckDB-backed persistence for air quality
// readings and the trend analysis built on top of them.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/marcboeker/go-duckdb" // Register DuckDB driver
)

// ClientConfig holds connection options for the embedded database.
type ClientConfig struct {
	Threads     int           // Number of DuckDB threads (0 = default)
	MemoryLimit string        // Memory limit, e.g. "512MB" (empty = default)
	Timeout     time.Duration // Connect/ping timeout (0 = none)
}

// Client manages the physical connection to a DuckDB database.
type Client struct {
	db     *sql.DB
	config ClientConfig
}

// Option configures the DuckDB client.
type Option func(*Client)

// WithThreads sets the number of DuckDB threads.
func WithThreads(n int) Option {
	return func(c *Client) {
		c.config.Threads = n
	}
}

// WithMemoryLimit sets the DuckDB memory limit ("512MB", "2GB", ...).
func WithMemoryLimit(limit string) Option {
	return func(c *Client) {
		c.config.MemoryLimit = limit
	}
}

// WithTimeout sets the connect timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.config.Timeout = d
	}
}

// NewClient opens a DuckDB database. An empty dsn opens an in-memory
// database; otherwise dsn is a file path.
func NewClient(dsn string, opts ...Option) (*Client, error) {
	client := &Client{}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if dsn == "" {
		dsn = ":memory:"
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	ctx := context.Background()
	if client.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, client.config.Timeout)
		defer cancel()
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}

	// DuckDB is embedded; serial access is safer for writes
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	client.db = db

	if client.config.Threads > 0 {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA threads=%d", client.config.Threads)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting threads: %w", err)
		}
	}
	if client.config.MemoryLimit != "" {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA memory_limit='%s'", client.config.MemoryLimit)); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("setting memory limit: %w", err)
		}
	}

	return client, nil
}

// NewInMemory opens a fresh in-memory database.
func NewInMemory(opts ...Option) (*Client, error) {
	return NewClient(":memory:", opts...)
}

// DB returns the underlying sql.DB instance.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close releases database resources.
func (c *Client) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Ping verifies database connectivity.
func (c *Client) Ping(ctx context.Context) error {
	if c.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return c.db.PingContext(ctx)
}
