package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/soltixdb/demandcast/internal/analytics/forecast"
	"github.com/soltixdb/demandcast/internal/cache"
	"github.com/soltixdb/demandcast/internal/config"
	"github.com/soltixdb/demandcast/internal/logging"
	"github.com/soltixdb/demandcast/internal/queue"
	"github.com/soltixdb/demandcast/internal/router"
	"github.com/soltixdb/demandcast/internal/services"
	"github.com/soltixdb/demandcast/internal/settings"
	"github.com/soltixdb/demandcast/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	// Optional .env for local runs; real environments set variables directly
	_ = godotenv.Load(".env")

	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("Forecaster service starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Engine configuration: static config, then persisted settings on top
	engineCfg, err := services.EngineConfig(cfg.Forecast, time.Now())
	if err != nil {
		logger.Fatal("Invalid forecast configuration", "error", err)
	}
	store, err := forecast.NewStore(engineCfg)
	if err != nil {
		logger.Fatal("Failed to create forecast config store", "error", err)
	}

	logger.Info("Connecting to settings store", "type", cfg.Settings.Type, "endpoints", cfg.Settings.Endpoints)
	settingsStore, err := settings.New(cfg.Settings)
	if err != nil {
		logger.Fatal("Failed to connect to settings store", "error", err)
	}
	defer func() { _ = settingsStore.Close() }()

	configService := services.NewConfigService(logger, store, settingsStore)
	if err := configService.Load(ctx); err != nil {
		logger.Fatal("Failed to load forecast settings", "error", err)
	}
	go func() {
		if err := configService.Watch(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Settings watch stopped", "error", err)
		}
	}()

	logger.Info("Opening forecast cache", "type", cfg.Cache.Type, "ttl", cfg.Cache.TTL.String())
	forecastCache, err := cache.New(cfg.Cache)
	if err != nil {
		logger.Fatal("Failed to open forecast cache", "error", err)
	}
	defer func() { _ = forecastCache.Close() }()

	// Publisher is nil when publication is disabled
	publisher, err := queue.NewForecastPublisherFromConfig(cfg.Queue)
	if err != nil {
		logger.Fatal("Failed to connect to Queue", "type", cfg.Queue.Type, "error", err)
	}
	if publisher != nil {
		defer func() { _ = publisher.Close() }()
		logger.Info("Forecast publication enabled", "type", cfg.Queue.Type, "subjects", publisher.Pattern())
	} else {
		logger.Warn("Forecast publication disabled")
	}

	engine := forecast.NewEngine(store,
		forecast.WithLogger(logger),
		forecast.WithParallelism(cfg.Forecast.BulkParallelism))
	forecastService := services.NewForecastService(logger, engine, forecastCache, publisher)

	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	app := router.New(logger, forecastService, configService, *cfg, Version)

	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr)
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
