package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/roofsight/roofsight/internal/cache"
	"github.com/roofsight/roofsight/internal/database"
	"github.com/roofsight/roofsight/internal/log"
	"github.com/roofsight/roofsight/internal/server"
	"github.com/roofsight/roofsight/pkg/config"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := a.configProvider.LoadConfig()
	if err != nil {
		return err
	}

	// Optional estimate persistence
	var db *database.Client
	if cfg.Storage.ConnectionString != "" {
		db = database.NewClient(cfg.Storage.ConnectionString, a.logger)
		if err := db.Connect(); err != nil {
			return err
		}
		defer db.Close()
	} else {
		log.Info("no storage configured, estimates will not be persisted")
	}

	// Optional upstream response cache
	var responseCache *cache.Cache
	if cfg.Cache.Path != "" {
		responseCache, err = cache.Open(cfg.Cache.Path, time.Duration(cfg.Cache.TTLMinutes)*time.Minute, a.logger)
		if err != nil {
			return err
		}
		defer responseCache.Close()
	}

	ctrl, err := server.NewController(ctx, &wg, cfg, db, responseCache, a.logger)
	if err != nil {
		return err
	}
	if err := ctrl.StartController(); err != nil {
		return err
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
