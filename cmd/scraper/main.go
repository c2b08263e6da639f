package main

import (
	"context"
	"log"

	"github.com/walksync/walksync/internal/config"
	"github.com/walksync/walksync/internal/extractor"
	"github.com/walksync/walksync/internal/logger"
	"github.com/walksync/walksync/internal/renderer"
	"github.com/walksync/walksync/internal/scraper"
	"github.com/walksync/walksync/internal/telemetry"
	"github.com/walksync/walksync/internal/transport"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger first (for configuration loading)
	initialLogger, err := logger.NewLogger("production", "info")
	if err != nil {
		log.Fatal("failed to initialize logger:", err)
	}
	defer func() {
		_ = initialLogger.Sync()
	}()

	// Load configuration
	cfg := config.Load(initialLogger)

	// Create application logger with proper configuration
	appLogger, err := logger.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		initialLogger.Fatal("failed to create application logger", zap.Error(err))
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	if len(cfg.SourceURLs) == 0 {
		appLogger.Fatal("no source URLs configured, set SOURCE_URLS")
	}

	tel, err := telemetry.NewTelemetry(appLogger)
	if err != nil {
		appLogger.Fatal("failed to initialize telemetry", zap.Error(err))
	}

	var rend renderer.Renderer
	switch cfg.RenderMode {
	case config.RenderModeStatic:
		rend = renderer.NewStaticRenderer(cfg.HTTPTimeout, appLogger)
	default:
		rend = renderer.NewChromeRenderer(renderer.ChromeOptions{
			MaxLoadMore:    cfg.MaxLoadMore,
			NavTimeout:     cfg.NavTimeout,
			SettleInterval: cfg.SettleInterval,
		}, appLogger)
	}

	pipeline := scraper.NewPipeline(
		rend,
		extractor.NewExtractor(extractor.SearchResultsLocator{}, appLogger),
		transport.NewClient(cfg.IngestEndpoint, cfg.HTTPTimeout, appLogger),
		cfg.SourceURLs,
		appLogger,
		tel.Meter,
	)

	// One run per invocation; the external scheduler decides cadence. A
	// failed delivery is logged rather than retried, so the process still
	// exits cleanly.
	if err := pipeline.Run(context.Background()); err != nil {
		appLogger.Error("run finished with undelivered batch", zap.Error(err))
	}
	appLogger.Info("scraper finished")
}
