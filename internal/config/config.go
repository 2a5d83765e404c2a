// Package config loads and validates the dashboard configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete dashboard configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Poll     PollConfig     `yaml:"poll"`
	Location LocationConfig `yaml:"location"`
	Health   HealthConfig   `yaml:"health"`
	Fallback FallbackConfig `yaml:"fallback"`
	Database DatabaseConfig `yaml:"database"`
	Graph    GraphConfig    `yaml:"graph"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// APIConfig points at the backend.
type APIConfig struct {
	BaseURL               string `yaml:"base_url"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
}

// PollConfig sets per-feed refresh cadence and the freshness window for
// reusing the last live snapshot when a fetch fails.
type PollConfig struct {
	CurrentIntervalSeconds  int `yaml:"current_interval_seconds"`
	StationsIntervalSeconds int `yaml:"stations_interval_seconds"`
	AlertsIntervalSeconds   int `yaml:"alerts_interval_seconds"`
	ForecastIntervalSeconds int `yaml:"forecast_interval_seconds"`
	FreshnessWindowSeconds  int `yaml:"freshness_window_seconds"`
}

// LocationConfig anchors hyperlocal queries and synthetic data.
type LocationConfig struct {
	Area      string  `yaml:"area"`
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	RadiusKM  float64 `yaml:"radius_km"`
}

// HealthConfig selects the advisory profile (general, sensitive,
// children, elderly, outdoor_worker).
type HealthConfig struct {
	Profile string `yaml:"profile"`
}

// FallbackConfig seeds the synthetic data generators.
type FallbackConfig struct {
	Seed int64 `yaml:"seed"`
}

// DatabaseConfig configures the local reading history store.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	Threads     int    `yaml:"threads"`
	MemoryLimit string `yaml:"memory_limit"`
}

// GraphConfig configures the optional source-attribution graph.
type GraphConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// GeminiConfig configures the optional AI insight engine. The API key is
// read from the environment, never from the file.
type GeminiConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Model     string `yaml:"model"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// LoggingConfig directs diagnostic output.
type LoggingConfig struct {
	File string `yaml:"file"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL:               "http://localhost:5004",
			RequestTimeoutSeconds: 3,
		},
		Poll: PollConfig{
			CurrentIntervalSeconds:  30,
			StationsIntervalSeconds: 60,
			AlertsIntervalSeconds:   45,
			ForecastIntervalSeconds: 300,
			FreshnessWindowSeconds:  300,
		},
		Location: LocationConfig{
			Area:      "Central Delhi",
			Latitude:  28.6139,
			Longitude: 77.2090,
			RadiusKM:  2,
		},
		Health:   HealthConfig{Profile: "general"},
		Fallback: FallbackConfig{Seed: 42},
		Database: DatabaseConfig{
			Path:        "aqidash.db",
			Threads:     4,
			MemoryLimit: "512MB",
		},
		Graph: GraphConfig{
			URI:      "bolt://localhost:7687",
			Username: "neo4j",
			Database: "neo4j",
		},
		Gemini: GeminiConfig{
			Model:     "flash",
			APIKeyEnv: "GEMINI_API_KEY",
		},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// WithBaseURL returns a copy of the config with a modified backend URL.
func (c Config) WithBaseURL(url string) Config {
	c.API.BaseURL = url
	return c
}

// WithArea returns a copy of the config anchored to a different area.
func (c Config) WithArea(area string) Config {
	c.Location.Area = area
	return c
}

// WithCurrentInterval returns a copy with a modified headline cadence.
func (c Config) WithCurrentInterval(seconds int) Config {
	c.Poll.CurrentIntervalSeconds = seconds
	return c
}

// Validate checks if the configuration is valid and returns an error if not.
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return &ConfigError{Field: "api.base_url", Message: "must not be empty"}
	}
	if c.API.RequestTimeoutSeconds <= 0 {
		return &ConfigError{Field: "api.request_timeout_seconds", Message: "must be positive"}
	}
	if c.API.RequestTimeoutSeconds > 30 {
		return &ConfigError{Field: "api.request_timeout_seconds", Message: "must be at most 30"}
	}
	if c.Poll.CurrentIntervalSeconds <= 0 {
		return &ConfigError{Field: "poll.current_interval_seconds", Message: "must be positive"}
	}
	if c.Poll.FreshnessWindowSeconds < 0 {
		return &ConfigError{Field: "poll.freshness_window_seconds", Message: "must not be negative"}
	}
	if c.Location.RadiusKM <= 0 {
		return &ConfigError{Field: "location.radius_km", Message: "must be positive"}
	}
	switch c.Health.Profile {
	case "general", "sensitive", "children", "elderly", "outdoor_worker":
	default:
		return &ConfigError{Field: "health.profile", Message: "unknown profile " + c.Health.Profile}
	}
	if c.Database.Path == "" {
		return &ConfigError{Field: "database.path", Message: "must not be empty"}
	}
	if c.Graph.Enabled && c.Graph.URI == "" {
		return &ConfigError{Field: "graph.uri", Message: "must not be empty when graph is enabled"}
	}
	if c.Gemini.Enabled && c.Gemini.APIKeyEnv == "" {
		return &ConfigError{Field: "gemini.api_key_env", Message: "must not be empty when gemini is enabled"}
	}
	return nil
}

// RequestTimeout returns the per-fetch timeout as a duration.
func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.API.RequestTimeoutSeconds) * time.Second
}

// FreshFor returns the freshness window as a duration.
func (c Config) FreshFor() time.Duration {
	return time.Duration(c.Poll.FreshnessWindowSeconds) * time.Second
}

// CurrentInterval returns the headline feed cadence.
func (c Config) CurrentInterval() time.Duration {
	return time.Duration(c.Poll.CurrentIntervalSeconds) * time.Second
}

// StationsInterval returns the station table cadence.
func (c Config) StationsInterval() time.Duration {
	return time.Duration(c.Poll.StationsIntervalSeconds) * time.Second
}

// AlertsInterval returns the alerts feed cadence.
func (c Config) AlertsInterval() time.Duration {
	return time.Duration(c.Poll.AlertsIntervalSeconds) * time.Second
}

// ForecastInterval returns the forecast feed cadence.
func (c Config) ForecastInterval() time.Duration {
	return time.Duration(c.Poll.ForecastIntervalSeconds) * time.Second
}

// GeminiAPIKey resolves the Gemini API key from the environment.
func (c Config) GeminiAPIKey() string {
	if c.Gemini.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Gemini.APIKeyEnv)
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error: " + e.Field + " " + e.Message
}
