package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nerrad567/habitat-core/internal/infrastructure/config"
)

// writeConfig writes a test config file and points HABITAT_CONFIG at it.
func writeConfig(t *testing.T, content string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing test config: %v", err)
	}
	t.Setenv("HABITAT_CONFIG", path)
}

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("HABITAT_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_MissingDatabasePath verifies run fails when database path is empty.
func TestRun_MissingDatabasePath(t *testing.T) {
	writeConfig(t, `
site:
  id: test-site

database:
  path: ""
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

sweep:
  enabled: false

logging:
  level: info
  format: text
  output: stdout
`)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with empty database path")
	}
}

// TestRun_StartupAndShutdown runs the full service offline: MQTT and
// InfluxDB disabled, sweep enabled with a long initial delay. Cancelling
// the context should produce a clean shutdown.
func TestRun_StartupAndShutdown(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "habitat.db")
	writeConfig(t, `
site:
  id: test-site

database:
  path: "`+dbPath+`"
  wal_mode: true
  busy_timeout: 5

mqtt:
  enabled: false

influxdb:
  enabled: false

sweep:
  enabled: true
  interval: 60
  initial_delay: 30

logging:
  level: info
  format: text
  output: stdout
`)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v, want clean shutdown", err)
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	t.Setenv("HABITAT_CONFIG", "")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	expected := "/custom/path/config.yaml"
	t.Setenv("HABITAT_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestAdapterTiming_Conversion verifies millisecond config values become
// durations, and zeros pass through for the adapters to default.
func TestAdapterTiming_Conversion(t *testing.T) {
	timing := adapterTiming(config.AdapterTimingConfig{
		PairDelay:      2000,
		CommandDelay:   500,
		RetryBaseDelay: 1000,
	})

	if timing.PairDelay != 2*time.Second {
		t.Errorf("PairDelay = %v, want 2s", timing.PairDelay)
	}
	if timing.CommandDelay != 500*time.Millisecond {
		t.Errorf("CommandDelay = %v, want 500ms", timing.CommandDelay)
	}
	if timing.RetryBaseDelay != time.Second {
		t.Errorf("RetryBaseDelay = %v, want 1s", timing.RetryBaseDelay)
	}

	zero := adapterTiming(config.AdapterTimingConfig{})
	if zero.PairDelay != 0 || zero.CommandDelay != 0 || zero.RetryBaseDelay != 0 {
		t.Errorf("zero config produced non-zero timing: %+v", zero)
	}
}
