// Package server provides the REST API that orchestrates the estimation
// pipeline: geocode the address, fetch building insights, classify the
// roof, and run the gutter calculation.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/roofsight/roofsight/internal/cache"
	"github.com/roofsight/roofsight/internal/classifier"
	"github.com/roofsight/roofsight/internal/database"
	"github.com/roofsight/roofsight/internal/geocode"
	"github.com/roofsight/roofsight/internal/insights"
	"github.com/roofsight/roofsight/pkg/config"
	"github.com/roofsight/roofsight/pkg/gutter"
	"go.uber.org/zap"
)

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	service    config.ServiceData
	Server     http.Server
	logger     *zap.SugaredLogger
	handlers   *Handlers
	geocoder   *geocode.Client
	insights   *insights.Client
	classifier *classifier.Client
	calculator *gutter.Calculator
	DB         *database.Client // nil when persistence is not configured
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg *config.ConfigData, db *database.Client, responseCache *cache.Cache, logger *zap.SugaredLogger) (*Controller, error) {
	if cfg.Service.ListenAddr == "" {
		return nil, fmt.Errorf("no listen address configured for the REST server")
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		service:    cfg.Service,
		logger:     logger,
		geocoder:   geocode.NewClient(&cfg.Providers, logger),
		insights:   insights.NewClient(&cfg.Providers, responseCache, logger),
		classifier: classifier.NewClient(&cfg.Providers, logger),
		calculator: gutter.NewCalculator(logger),
		DB:         db,
	}
	ctrl.handlers = NewHandlers(ctrl)

	return ctrl, nil
}

// StartController starts the HTTP server and blocks until it is listening
func (c *Controller) StartController() error {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/estimate", c.handlers.HandleEstimate).Methods(http.MethodPost)
	router.HandleFunc("/api/v1/estimates/{address}", c.handlers.HandleEstimateHistory).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/health", c.handlers.HandleHealth).Methods(http.MethodGet)

	c.Server = http.Server{
		Addr:         c.service.ListenAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.logger.Infof("REST server listening on %s", c.service.ListenAddr)
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Errorf("REST server error: %v", err)
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			c.logger.Errorf("REST server shutdown error: %v", err)
		}
	}()

	return nil
}
