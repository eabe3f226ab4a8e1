// Matrix Portal Core - ambient LED matrix display
//
// This is the main entry point. It loads configuration, connects the MQTT
// bus, opens the optional state database and telemetry, then hands control
// to the manager's supervisor loop until a shutdown signal arrives.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nerrad567/matrix-portal-core/internal/api"
	"github.com/nerrad567/matrix-portal-core/internal/bus"
	"github.com/nerrad567/matrix-portal-core/internal/display"
	"github.com/nerrad567/matrix-portal-core/internal/hass"
	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/config"
	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/database"
	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/logging"
	"github.com/nerrad567/matrix-portal-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/matrix-portal-core/internal/input"
	"github.com/nerrad567/matrix-portal-core/internal/manager"
	"github.com/nerrad567/matrix-portal-core/internal/sprite"
	"github.com/nerrad567/matrix-portal-core/internal/theme"
	"github.com/nerrad567/matrix-portal-core/internal/theme/themes"
	"github.com/nerrad567/matrix-portal-core/internal/timesync"
	"github.com/nerrad567/matrix-portal-core/migrations"
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

// historyRetention is how long entity state history is kept.
const historyRetention = 30 * 24 * time.Hour

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// It returns nil on clean shutdown.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting Matrix Portal Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version).ForDevice(cfg.Device.ID)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Themes are resolved first: an unknown name is a configuration error.
	factories, err := themes.Lookup(cfg.Themes.Enabled)
	if err != nil {
		return fmt.Errorf("resolving themes: %w", err)
	}

	sheet, err := sprite.Load()
	if err != nil {
		return fmt.Errorf("loading sprite sheet: %w", err)
	}
	palette := sprite.DefaultPalette().Corrected(cfg.Matrix.Brightness, cfg.Matrix.Gamma)

	// Open the state database (optional)
	var db *database.DB
	var history hass.HistoryStore
	if cfg.Database.Enabled {
		db, err = openDatabase(ctx, cfg.Database, log)
		if err != nil {
			return err
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()

		store := hass.NewSQLiteHistory(db.DB)
		if pruned, pruneErr := store.Prune(ctx, historyRetention); pruneErr != nil {
			log.Warn("failed to prune state history", "error", pruneErr)
		} else if pruned > 0 {
			log.Info("state history pruned", "rows", pruned)
		}
		history = store
	} else {
		log.Info("state database disabled")
	}

	// Connect to MQTT broker
	topics := mqtt.NewTopics(cfg.MQTT.TopicPrefix, cfg.Device.ID, cfg.HASS.TopicPrefix)
	mqttClient, err := mqtt.Connect(cfg.MQTT, topics)
	if err != nil {
		return fmt.Errorf("connecting to MQTT: %w", err)
	}
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := mqttClient.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()
	mqttClient.SetLogger(log.Component("mqtt"))
	mqttClient.SetOnConnect(func() {
		log.Info("MQTT reconnected")
	})
	mqttClient.SetOnDisconnect(func(err error) {
		log.Warn("MQTT disconnected", "error", err)
	})
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)

	adapter, err := bus.New(mqttClient, cfg.MQTT.InboxSize)
	if err != nil {
		return fmt.Errorf("creating bus adapter: %w", err)
	}
	adapter.SetLogger(log.Component("bus"))

	registry := hass.NewRegistry(adapter, topics)
	registry.SetLogger(log.Component("hass"))
	if history != nil {
		registry.SetHistory(history)
	}

	// Connect to InfluxDB (optional)
	var influxClient *influxdb.Client
	var telemetry manager.Telemetry
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(cfg.InfluxDB)
		if err != nil {
			return fmt.Errorf("connecting to InfluxDB: %w", err)
		}
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		telemetry = influxClient
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Open the display and buttons
	surface, err := display.Open(cfg.Matrix, os.Stdout)
	if err != nil {
		return fmt.Errorf("opening display: %w", err)
	}
	defer func() {
		if closeErr := surface.Close(); closeErr != nil {
			log.Error("error closing display", "error", closeErr)
		}
	}()

	keys, err := input.Open(cfg.Buttons)
	if err != nil {
		return fmt.Errorf("opening buttons: %w", err)
	}
	defer func() {
		if closeErr := keys.Close(); closeErr != nil {
			log.Error("error closing buttons", "error", closeErr)
		}
	}()

	clock := timesync.NewClock(cfg.Location())
	var source timesync.Source
	if cfg.Time.Enabled {
		source = timesync.NewHTTPSource(cfg.Time)
	}

	mgr, err := manager.New(ctx, manager.Options{
		Config: cfg,
		Themes: factories,
		Deps: theme.Deps{
			Width:   cfg.Matrix.Width,
			Height:  cfg.Matrix.Height,
			Sheet:   sheet,
			Palette: palette,
			Now:     clock.Now,
		},
		Bus:       adapter,
		Registry:  registry,
		Topics:    topics,
		Display:   surface,
		Keys:      keys,
		Clock:     clock,
		Time:      source,
		Telemetry: telemetry,
		Logger:    log.Component("manager"),
	})
	if err != nil {
		return fmt.Errorf("creating manager: %w", err)
	}

	// Verify all connections are healthy
	if err := healthCheck(ctx, db, mqttClient, influxClient); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	// Start the status API (optional)
	if cfg.API.Enabled {
		server, apiErr := startAPI(ctx, cfg, mgr, history, topics, db, mqttClient, influxClient, log)
		if apiErr != nil {
			return apiErr
		}
		defer func() {
			if closeErr := server.Close(); closeErr != nil {
				log.Error("error closing API server", "error", closeErr)
			}
		}()
	}

	log.Info("initialisation complete, starting run-time",
		"themes", cfg.Themes.Enabled,
		"matrix", fmt.Sprintf("%dx%d", cfg.Matrix.Width, cfg.Matrix.Height),
	)

	// Blocks until the shutdown signal
	if err := mgr.Run(ctx); err != nil {
		return fmt.Errorf("running manager: %w", err)
	}

	log.Info("Matrix Portal Core stopped", "restarts", mgr.Restarts())
	return nil
}

// getConfigPath returns the configuration file path.
// Uses MATRIXPORTAL_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("MATRIXPORTAL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// openDatabase opens SQLite and applies the embedded migrations.
func openDatabase(ctx context.Context, cfg config.DatabaseConfig, log *logging.Logger) (*database.DB, error) {
	db, err := database.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	log.Info("database connected", "path", db.Path())

	applied, err := db.Migrate(ctx, migrations.FS)
	if err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	log.Info("database migrations complete", "applied", applied)
	return db, nil
}

// healthCheck verifies all infrastructure connections are healthy.
// db and influxClient may be nil when disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if db != nil {
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	if err := mqttClient.HealthCheck(ctx); err != nil {
		return fmt.Errorf("mqtt: %w", err)
	}

	if influxClient != nil {
		if err := influxClient.HealthCheck(ctx); err != nil {
			return fmt.Errorf("influxdb: %w", err)
		}
	}

	return nil
}

// startAPI builds and starts the status server with every enabled
// dependency registered as a health check.
func startAPI(
	ctx context.Context,
	cfg *config.Config,
	mgr *manager.Manager,
	history hass.HistoryStore,
	topics mqtt.Topics,
	db *database.DB,
	mqttClient *mqtt.Client,
	influxClient *influxdb.Client,
	log *logging.Logger,
) (*api.Server, error) {
	checks := map[string]api.HealthChecker{"mqtt": mqttClient}
	if db != nil {
		checks["database"] = db
	}
	if influxClient != nil {
		checks["influxdb"] = influxClient
	}

	server, err := api.New(api.Deps{
		Config:  cfg.API,
		Logger:  log.Component("api"),
		Status:  mgr,
		History: history,
		Topics:  topics,
		Checks:  checks,
		Version: version,
	})
	if err != nil {
		return nil, fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return nil, fmt.Errorf("starting API server: %w", err)
	}
	return server, nil
}
