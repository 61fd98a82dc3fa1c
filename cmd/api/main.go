// Command api is the Scoracle Matchup API server.
//
// Usage:
//
//	scoracle-matchup-api
//	API_PORT=8080 DATA_DIR=./data scoracle-matchup-api
//	DATA_SOURCE=postgres DATABASE_URL=postgres://... scoracle-matchup-api

// @title Scoracle Matchup API
// @version 1.0.0
// @description Team ratings and head-to-head matchup analysis over WNBA box-score snapshots.
// @host localhost:8000
// @BasePath /api/v1
// @schemes http https
// @contact.name Scoracle
// @license.name MIT
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"github.com/albapepper/scoracle-matchup/internal/api"
	"github.com/albapepper/scoracle-matchup/internal/api/handler"
	"github.com/albapepper/scoracle-matchup/internal/api/stream"
	"github.com/albapepper/scoracle-matchup/internal/cache"
	"github.com/albapepper/scoracle-matchup/internal/config"
	"github.com/albapepper/scoracle-matchup/internal/dataset"
	"github.com/albapepper/scoracle-matchup/internal/db"
	"github.com/albapepper/scoracle-matchup/internal/listener"
	"github.com/albapepper/scoracle-matchup/internal/maintenance"
	"github.com/albapepper/scoracle-matchup/internal/state"

	_ "github.com/albapepper/scoracle-matchup/docs" // swagger docs
)

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database (Postgres source only)
	var pool *db.Pool
	var pinger handler.Pinger
	var docs dataset.DocumentStore
	if cfg.UsesDatabase() {
		logger.Info("Connecting to database...")
		pool, err = db.New(ctx, cfg)
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		pinger, docs = pool, pool
		logger.Info("Database connected",
			"min_conns", cfg.DBPoolMinConns,
			"max_conns", cfg.DBPoolMaxConns)
	}

	// Initialize cache: Redis when configured, in-memory LRU otherwise
	var appCache cache.Store
	var memCache *cache.Cache
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer rc.Close()
		appCache = rc
		logger.Info("Cache initialized", "backend", "redis")
	} else {
		memCache = cache.New(cfg.CacheEnabled, cfg.CacheMaxSize)
		appCache = memCache
		logger.Info("Cache initialized", "backend", "memory",
			"enabled", cfg.CacheEnabled, "max_size", cfg.CacheMaxSize)
	}

	// Data source, session state and loader
	src, err := dataset.NewSource(cfg, docs, appCache, logger)
	if err != nil {
		logger.Error("Failed to create data source", "error", err)
		os.Exit(1)
	}
	store := state.NewStore(state.State{CurrentDataset: cfg.FullSeasonFile}, cfg.MaxHistory, logger)
	svc := dataset.NewService(dataset.NewLoader(src, cfg, logger), store, logger)
	defer svc.Close()

	// Initial load. A failure is recorded in state and served as a degraded
	// health status; the next reload may recover.
	if res, err := svc.Refresh(ctx); err != nil {
		logger.Warn("Initial data load failed", "source", src.Kind(), "error", err)
	} else {
		logger.Info("Initial data load complete", "source", src.Kind(), "summary", res.Summary())
	}

	refresh := func(ctx context.Context) error {
		_, err := svc.Reload(ctx)
		if perr := maintenance.PurgeResponses(ctx, appCache, logger); perr != nil && err == nil {
			err = perr
		}
		return err
	}

	// Start LISTEN/NOTIFY consumer for dataset updates
	if cfg.UsesDatabase() {
		go listener.Start(ctx, cfg.DatabaseURL, func(ctx context.Context, event listener.UpdateEvent) {
			if err := refresh(ctx); err != nil {
				logger.Warn("Reload after dataset update failed", "dataset", event.Name, "error", err)
			}
		}, logger)
	}

	// Start maintenance tickers (scheduled refresh, cache eviction)
	mcfg := maintenance.DefaultConfig()
	mcfg.RefreshInterval = cfg.RefreshEvery
	tasks := maintenance.Tasks{Refresh: refresh}
	if memCache != nil {
		tasks.Evict = memCache.Evict
	}
	go maintenance.Start(ctx, mcfg, tasks, logger)

	// State stream
	hub := stream.NewHub(store, logger)
	defer hub.Close()

	// Create router
	router := api.NewRouter(svc, appCache, pinger, hub, cfg, logger)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting Scoracle Matchup API",
			"addr", addr,
			"environment", cfg.Environment,
			"source", src.Kind(),
			"docs", fmt.Sprintf("http://localhost:%d/docs/", cfg.APIPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}
