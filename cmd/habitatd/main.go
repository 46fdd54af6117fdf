// Habitat Core - Smart Home Automation Service
//
// This is the main entry point for the Habitat Core application.
// Habitat Core is an event-driven smart home controller:
//   - Devices are commanded through protocol adapters (WiFi, Bluetooth, Zigbee)
//   - Every state change flows through an in-process event bus
//   - Automation rules, MQTT notification and telemetry are bus subscribers
//
// For the package map, see DESIGN.md.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/nerrad567/habitat-core/migrations"

	"github.com/nerrad567/habitat-core/internal/adapters"
	"github.com/nerrad567/habitat-core/internal/audit"
	"github.com/nerrad567/habitat-core/internal/automation"
	"github.com/nerrad567/habitat-core/internal/device"
	"github.com/nerrad567/habitat-core/internal/events"
	"github.com/nerrad567/habitat-core/internal/infrastructure/config"
	"github.com/nerrad567/habitat-core/internal/infrastructure/database"
	"github.com/nerrad567/habitat-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/habitat-core/internal/infrastructure/logging"
	"github.com/nerrad567/habitat-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/habitat-core/internal/notify"
	"github.com/nerrad567/habitat-core/internal/orchestrator"
	"github.com/nerrad567/habitat-core/internal/sweep"
	"github.com/nerrad567/habitat-core/internal/telemetry"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Habitat Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open database
	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	// Run migrations
	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Event bus - everything downstream subscribes to this
	bus := events.NewBus()
	bus.SetLogger(log)

	// Protocol adapter registry
	registry := adapters.NewDefaultRegistry(
		adapterTiming(cfg.Adapters.WiFi),
		adapterTiming(cfg.Adapters.Bluetooth),
		adapterTiming(cfg.Adapters.Zigbee),
		cfg.Adapters.BreakerThreshold,
	)
	registry.SetLogger(log)
	log.Info("adapter registry initialised",
		"protocols", registry.ListProtocols(),
		"breaker_threshold", cfg.Adapters.BreakerThreshold,
	)

	// Device store and orchestrator
	store := device.NewStore(db.DB)

	orch := orchestrator.New(store, bus, registry)
	orch.SetLogger(log)

	// Automation rules react to device state changes on the bus
	rules := automation.NewHandler(orch, bus, automation.DefaultRules())
	rules.SetLogger(log)
	rules.Register()
	log.Info("automation rules registered", "rules", len(automation.DefaultRules()))

	// Structured activity trail: one log line per domain event
	audit.NewTrail(log).Register(bus)

	// Connect to MQTT broker and forward events (optional)
	if cfg.MQTT.Enabled {
		mqttClient, connectErr := mqtt.Connect(cfg.MQTT)
		if connectErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", connectErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT reconnected")
		})
		mqttClient.SetOnDisconnect(func(err error) {
			log.Warn("MQTT disconnected", "error", err)
		})

		forwarder := notify.NewForwarder(mqttClient, byte(cfg.MQTT.QoS))
		forwarder.SetLogger(log)
		forwarder.Register(bus)

		if healthErr := mqttClient.HealthCheck(ctx); healthErr != nil {
			return fmt.Errorf("mqtt health check: %w", healthErr)
		}
	} else {
		log.Info("MQTT disabled")
	}

	// Connect to InfluxDB and mirror events into it (optional)
	if cfg.InfluxDB.Enabled {
		influxClient, connectErr := influxdb.Connect(cfg.InfluxDB)
		if connectErr != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", connectErr)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)

		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})

		telemetry.NewRecorder(influxClient).Register(bus)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Start the energy-saving sweep schedule (optional)
	if cfg.Sweep.Enabled {
		scheduler := sweep.NewScheduler(orch, cfg.SweepInterval(), cfg.SweepInitialDelay())
		scheduler.SetLogger(log)
		if startErr := scheduler.Start(ctx); startErr != nil {
			return fmt.Errorf("starting sweep scheduler: %w", startErr)
		}
		defer scheduler.Stop()
	} else {
		log.Info("energy saving sweep disabled")
	}

	// Verify infrastructure is healthy before declaring readiness
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database health check: %w", err)
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. Sweep scheduler
	// 2. InfluxDB (if enabled)
	// 3. MQTT (if enabled)
	// 4. Database

	log.Info("Habitat Core stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses HABITAT_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("HABITAT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// adapterTiming converts millisecond config values into adapter timings.
// Zero values stay zero; the adapter constructors fill in their protocol
// defaults.
func adapterTiming(cfg config.AdapterTimingConfig) adapters.Timing {
	return adapters.Timing{
		PairDelay:      time.Duration(cfg.PairDelay) * time.Millisecond,
		CommandDelay:   time.Duration(cfg.CommandDelay) * time.Millisecond,
		RetryBaseDelay: time.Duration(cfg.RetryBaseDelay) * time.Millisecond,
	}
}
