package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/walksync/walksync/internal/config"
	"github.com/walksync/walksync/internal/handlers"
	"github.com/walksync/walksync/internal/router"
	"github.com/walksync/walksync/internal/store"
	"github.com/walksync/walksync/internal/telemetry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// App is the API server: the ingestion endpoint, the query endpoint and
// their shared store.
type App struct {
	config    *config.Config
	logger    *zap.Logger
	telemetry *telemetry.Telemetry
	store     store.Store
	server    *http.Server
}

func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	tel, err := telemetry.NewTelemetry(logger)
	if err != nil {
		return nil, err
	}

	factory := store.NewFactory(logger, tel)
	configJSON := cfg.StoreConfig
	if configJSON == "" {
		// Default to the in-memory store
		b, _ := json.Marshal(store.ProviderConfig{
			DbType:       store.DbTypeMemory,
			ExtraDetails: map[string]interface{}{},
		})
		configJSON = string(b)
	}
	st, err := factory.CreateStore(configJSON)
	if err != nil {
		return nil, err
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.RPSLimit), cfg.RPSBurst)

	handlerList := []router.Handler{
		handlers.NewWalkIngestHandler(st, logger, tel.Meter),
		handlers.NewWalkQueryHandler(st, logger),
		handlers.NewHealthHandler(),
	}

	appRouter := router.NewRouter(limiter, tel, logger, cfg.AllowedOrigin, handlerList)
	server := appRouter.CreateServer(":" + cfg.Port)

	return &App{
		config:    cfg,
		logger:    logger,
		telemetry: tel,
		store:     st,
		server:    server,
	}, nil
}

// Start starts the application server
func (app *App) start() error {
	app.logger.Info("starting server", zap.String("port", app.config.Port))

	go func() {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	return nil
}

// Stop gracefully shuts down the application
func (app *App) stop() error {
	app.logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(shutdownCtx); err != nil {
		app.logger.Error("server forced to shutdown", zap.Error(err))
		return err
	}

	if err := app.store.Close(); err != nil {
		app.logger.Warn("failed to close store", zap.Error(err))
	}
	if err := app.telemetry.Shutdown(shutdownCtx); err != nil {
		app.logger.Warn("failed to shut down telemetry", zap.Error(err))
	}

	app.logger.Info("server exited gracefully")
	return nil
}

// Run starts the application and waits for shutdown signals
func (app *App) Run() error {
	if err := app.start(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	return app.stop()
}
