package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/nerrad567/heima-core/internal/api"
	"github.com/nerrad567/heima-core/internal/audit"
	"github.com/nerrad567/heima-core/internal/bridge"
	"github.com/nerrad567/heima-core/internal/command"
	"github.com/nerrad567/heima-core/internal/engine"
	"github.com/nerrad567/heima-core/internal/infrastructure/config"
	"github.com/nerrad567/heima-core/internal/infrastructure/database"
	"github.com/nerrad567/heima-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/heima-core/internal/infrastructure/logging"
	"github.com/nerrad567/heima-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/heima-core/internal/space"
	"github.com/nerrad567/heima-core/internal/telemetry"
	"github.com/nerrad567/heima-core/migrations"
)

func newServeCmd(configPath func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the decision engine.",
		Long: `Connects to SQLite, MQTT and (optionally) InfluxDB, loads the space file,
starts the HTTP API and evaluates on every tracked entity change until
SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, configPath())
		},
	}
}

// engineOptions maps the engine section of config.yaml onto engine options.
func engineOptions(cfg config.EngineConfig) engine.Options {
	return engine.Options{
		Enabled:           cfg.Enabled,
		LightingApplyMode: cfg.LightingApplyMode,
		Timezone:          cfg.Timezone,
		Language:          cfg.Language,
	}
}

// run is the serve logic, separated from the command for testability.
// It returns nil on a clean shutdown.
func run(ctx context.Context, configPath string) error { //nolint:funlen,gocognit // linear startup sequence
	log := logging.Default()
	log.Info("starting Heima Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	sp, err := space.Load(cfg.Engine.SpaceFile)
	if err != nil {
		return fmt.Errorf("loading space: %w", err)
	}
	log.Info("space loaded",
		"path", cfg.Engine.SpaceFile,
		"people", len(sp.People),
		"rooms", len(sp.Rooms),
		"zones", len(sp.LightingZones),
	)

	// Database
	db, err := database.Open(ctx, database.Config{
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
	if migrateErr := db.Migrate(ctx, migrations.FS, "."); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database ready", "path", cfg.Database.Path)

	auditRepo := audit.NewSQLiteRepository(db.DB)

	// MQTT
	mqttClient, err := mqtt.Connect(cfg.MQTT)
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
	mqttClient.SetOnConnect(func() { log.Info("MQTT reconnected") })
	mqttClient.SetOnDisconnect(func(err error) { log.Warn("MQTT disconnected", "error", err) })
	log.Info("MQTT connected",
		"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
		"client_id", cfg.MQTT.Broker.ClientID,
	)
	qos := mqttClient.QoS()

	// InfluxDB (optional)
	var influxClient *influxdb.Client
	if cfg.InfluxDB.Enabled {
		influxClient, err = influxdb.Connect(ctx, cfg.InfluxDB)
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
		log.Info("InfluxDB connected", "url", cfg.InfluxDB.URL, "bucket", cfg.InfluxDB.Bucket)
	} else {
		log.Info("InfluxDB disabled")
	}

	// Engine. The cache forwards changes to the coordinator, which exists
	// before the cache is attached to the broker.
	var coordinator *engine.Coordinator
	cache := bridge.NewStateCache(func(entityID string) {
		coordinator.EntityChanged(entityID)
	})
	cache.SetLogger(log.Component("state-cache"))

	var actuator engine.Actuator
	if cfg.Engine.LightingApplyMode != config.ApplyModeDelegate {
		actuator = bridge.NewSceneActuator(mqttClient, qos)
	}

	eng := engine.New(cache, actuator, log.Component("engine"))
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	eng.SetMetrics(engine.NewMetrics(registry))
	if reloadErr := eng.ReloadConfiguration(ctx, sp, engineOptions(cfg.Engine)); reloadErr != nil {
		return fmt.Errorf("configuring engine: %w", reloadErr)
	}
	coordinator = engine.NewCoordinator(eng, cfg.Engine.QueueSize, log.Component("coordinator"))

	eng.AddObserver(bridge.NewPublisher(mqttClient, qos, log.Component("publisher")))
	eng.AddObserver(audit.NewRecorder(auditRepo, log.Component("audit")))
	if influxClient != nil {
		eng.AddObserver(telemetry.NewRecorder(influxClient, cfg.Site.ID))
	}

	dispatcher := command.NewDispatcher(eng, coordinator, auditRepo)
	dispatcher.SetLogger(log.Component("commands"))

	// HTTP API
	server, err := api.New(api.Deps{
		Config:     cfg.API,
		WS:         cfg.WebSocket,
		Security:   cfg.Security,
		Logger:     log.Component("api"),
		Engine:     eng,
		Scheduler:  coordinator,
		Dispatcher: dispatcher,
		Audit:      auditRepo,
		Gatherer:   registry,
		Version:    version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	eng.AddObserver(server.Hub())

	// Inbound MQTT
	if attachErr := cache.Attach(mqttClient, qos); attachErr != nil {
		return fmt.Errorf("subscribing to entity states: %w", attachErr)
	}
	listener := bridge.NewCommandListener(mqttClient, dispatcher, qos, log.Component("commands"))
	if startErr := listener.Start(ctx); startErr != nil {
		return fmt.Errorf("subscribing to commands: %w", startErr)
	}

	if startErr := server.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if healthErr := healthCheck(ctx, db, mqttClient, influxClient); healthErr != nil {
		return fmt.Errorf("health check failed: %w", healthErr)
	}
	log.Info("all health checks passed")

	if startErr := coordinator.Start(ctx); startErr != nil {
		return fmt.Errorf("starting engine: %w", startErr)
	}
	log.Info("initialisation complete, waiting for shutdown signal",
		"tracked_entities", len(coordinator.Tracked()),
		"enabled", cfg.Engine.Enabled,
		"apply_mode", cfg.Engine.LightingApplyMode,
	)

	// Run returns once ctx is cancelled and marks the engine shut down.
	if runErr := coordinator.Run(ctx); runErr != nil && !errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("engine stopped: %w", runErr)
	}

	log.Info("shutdown signal received, cleaning up")
	if influxClient != nil {
		influxClient.Flush()
	}
	return nil
}

// healthCheck verifies all infrastructure connections are healthy.
// influxClient may be nil when InfluxDB is disabled.
func healthCheck(ctx context.Context, db *database.DB, mqttClient *mqtt.Client, influxClient *influxdb.Client) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
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
