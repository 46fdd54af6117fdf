package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for Habitat Core.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Database DatabaseConfig `yaml:"database"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Adapters AdaptersConfig `yaml:"adapters"`
}

// SiteConfig contains site-specific information.
type SiteConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Timezone string `yaml:"timezone"`
}

// DatabaseConfig contains SQLite database settings.
type DatabaseConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings for the
// event notification sink.
type MQTTConfig struct {
	Enabled   bool                `yaml:"enabled"`
	Broker    MQTTBrokerConfig    `yaml:"broker"`
	Auth      MQTTAuthConfig      `yaml:"auth"`
	QoS       int                 `yaml:"qos"`
	Reconnect MQTTReconnectConfig `yaml:"reconnect"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// MQTTReconnectConfig contains MQTT reconnection settings.
type MQTTReconnectConfig struct {
	InitialDelay int `yaml:"initial_delay"`
	MaxDelay     int `yaml:"max_delay"`
	MaxAttempts  int `yaml:"max_attempts"`
}

// InfluxDBConfig contains InfluxDB connection settings for state-change telemetry.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// SweepConfig contains energy-saving sweep scheduling settings.
//
// The sweep itself lives in the orchestrator; this only controls when
// the scheduler fires it.
type SweepConfig struct {
	Enabled bool `yaml:"enabled"`

	// Interval is the period between sweeps, in seconds.
	Interval int `yaml:"interval"`

	// InitialDelay is how long to wait after startup before the first
	// sweep, in seconds. Gives the rest of the system time to settle.
	InitialDelay int `yaml:"initial_delay"`
}

// AdaptersConfig contains protocol adapter settings.
type AdaptersConfig struct {
	// BreakerThreshold is the consecutive-failure count at which an
	// adapter's circuit breaker opens.
	BreakerThreshold int `yaml:"breaker_threshold"`

	WiFi      AdapterTimingConfig `yaml:"wifi"`
	Bluetooth AdapterTimingConfig `yaml:"bluetooth"`
	Zigbee    AdapterTimingConfig `yaml:"zigbee"`
}

// AdapterTimingConfig contains simulated transport timing for one protocol.
// All values are in milliseconds.
type AdapterTimingConfig struct {
	PairDelay      int `yaml:"pair_delay"`
	CommandDelay   int `yaml:"command_delay"`
	RetryBaseDelay int `yaml:"retry_base_delay"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: HABITAT_SECTION_KEY
// For example: HABITAT_DATABASE_PATH, HABITAT_MQTT_HOST
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Site: SiteConfig{
			ID:       "site-001",
			Name:     "Habitat",
			Timezone: "UTC",
		},
		Database: DatabaseConfig{
			Path:        "./data/habitat.db",
			WALMode:     true,
			BusyTimeout: 5,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host:     "localhost",
				Port:     1883,
				ClientID: "habitat-core",
			},
			QoS: 1,
			Reconnect: MQTTReconnectConfig{
				InitialDelay: 1,
				MaxDelay:     60,
				MaxAttempts:  0,
			},
		},
		InfluxDB: InfluxDBConfig{
			URL:           "http://localhost:8086",
			Org:           "habitat",
			Bucket:        "device_state",
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Sweep: SweepConfig{
			Enabled:      true,
			Interval:     60,
			InitialDelay: 10,
		},
		Adapters: AdaptersConfig{
			BreakerThreshold: 5,
			WiFi: AdapterTimingConfig{
				PairDelay:      2000,
				CommandDelay:   500,
				RetryBaseDelay: 1000,
			},
			Bluetooth: AdapterTimingConfig{
				PairDelay:      5000,
				CommandDelay:   800,
				RetryBaseDelay: 2000,
			},
			Zigbee: AdapterTimingConfig{
				PairDelay:      5000,
				CommandDelay:   600,
				RetryBaseDelay: 1500,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: HABITAT_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Database
	if v := os.Getenv("HABITAT_DATABASE_PATH"); v != "" {
		cfg.Database.Path = v
	}

	// MQTT
	if v := os.Getenv("HABITAT_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("HABITAT_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("HABITAT_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("HABITAT_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}

	// Logging
	if v := os.Getenv("HABITAT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Sweep
	if v := os.Getenv("HABITAT_SWEEP_INTERVAL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sweep.Interval = n
		}
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Site validation
	if c.Site.ID == "" {
		errs = append(errs, "site.id is required")
	}

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, "database.path is required")
	}

	// MQTT validation
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// Sweep validation
	if c.Sweep.Enabled && c.Sweep.Interval < 1 {
		errs = append(errs, "sweep.interval must be at least 1 second")
	}
	if c.Sweep.InitialDelay < 0 {
		errs = append(errs, "sweep.initial_delay must not be negative")
	}

	// Adapter validation
	if c.Adapters.BreakerThreshold < 1 {
		errs = append(errs, "adapters.breaker_threshold must be at least 1")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// SweepInterval returns the sweep period as a Duration.
func (c *Config) SweepInterval() time.Duration {
	return time.Duration(c.Sweep.Interval) * time.Second
}

// SweepInitialDelay returns the sweep startup delay as a Duration.
func (c *Config) SweepInitialDelay() time.Duration {
	return time.Duration(c.Sweep.InitialDelay) * time.Second
}
