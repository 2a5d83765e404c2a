package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config failed validation: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
api:
  base_url: http://aqi.example.net:8080
  request_timeout_seconds: 5
poll:
  current_interval_seconds: 15
location:
  area: East Delhi
  latitude: 28.6358
  longitude: 77.3145
  radius_km: 3
`)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.API.BaseURL != "http://aqi.example.net:8080" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.Poll.CurrentIntervalSeconds != 15 {
		t.Errorf("CurrentIntervalSeconds = %d", cfg.Poll.CurrentIntervalSeconds)
	}
	if cfg.Location.Area != "East Delhi" {
		t.Errorf("Area = %q", cfg.Location.Area)
	}
	// Untouched sections keep their defaults.
	if cfg.Health.Profile != "general" {
		t.Errorf("Profile = %q, want default", cfg.Health.Profile)
	}
	if cfg.Database.Path != "aqidash.db" {
		t.Errorf("Database.Path = %q, want default", cfg.Database.Path)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "empty base url",
			mutate:    func(c *Config) { c.API.BaseURL = "" },
			wantField: "api.base_url",
		},
		{
			name:      "zero timeout",
			mutate:    func(c *Config) { c.API.RequestTimeoutSeconds = 0 },
			wantField: "api.request_timeout_seconds",
		},
		{
			name:      "excessive timeout",
			mutate:    func(c *Config) { c.API.RequestTimeoutSeconds = 120 },
			wantField: "api.request_timeout_seconds",
		},
		{
			name:      "zero interval",
			mutate:    func(c *Config) { c.Poll.CurrentIntervalSeconds = 0 },
			wantField: "poll.current_interval_seconds",
		},
		{
			name:      "unknown health profile",
			mutate:    func(c *Config) { c.Health.Profile = "astronaut" },
			wantField: "health.profile",
		},
		{
			name: "graph enabled without uri",
			mutate: func(c *Config) {
				c.Graph.Enabled = true
				c.Graph.URI = ""
			},
			wantField: "graph.uri",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation to fail")
			}
			var cerr *ConfigError
			if !errors.As(err, &cerr) {
				t.Fatalf("error type = %T, want *ConfigError", err)
			}
			if cerr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.wantField)
			}
		})
	}
}

func TestWithModifiersCopy(t *testing.T) {
	base := Default()
	modified := base.WithBaseURL("http://other:9000").WithArea("North Delhi").WithCurrentInterval(10)

	if base.API.BaseURL == modified.API.BaseURL {
		t.Error("WithBaseURL mutated the receiver")
	}
	if modified.Location.Area != "North Delhi" || modified.Poll.CurrentIntervalSeconds != 10 {
		t.Errorf("modifiers not applied: %+v", modified)
	}
}

func TestDurationAccessors(t *testing.T) {
	cfg := Default()
	if cfg.RequestTimeout() != 3*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout())
	}
	if cfg.CurrentInterval() != 30*time.Second {
		t.Errorf("CurrentInterval = %v", cfg.CurrentInterval())
	}
	if cfg.FreshFor() != 5*time.Minute {
		t.Errorf("FreshFor = %v", cfg.FreshFor())
	}
}

func TestGeminiAPIKeyFromEnv(t *testing.T) {
	t.Setenv("AQIDASH_TEST_KEY", "secret")
	cfg := Default()
	cfg.Gemini.APIKeyEnv = "AQIDASH_TEST_KEY"
	if got := cfg.GeminiAPIKey(); got != "secret" {
		t.Errorf("GeminiAPIKey() = %q", got)
	}
}
