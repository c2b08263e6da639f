package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Render mode selects how source pages are turned into HTML.
const (
	RenderModeChrome = "chrome"
	RenderModeStatic = "static"
)

// Config holds everything the scraper and server binaries consume. All of
// it is externally supplied via environment variables (optionally from a
// .env file); none of the pipeline logic hardcodes these values.
type Config struct {
	Environment string
	LogLevel    string

	// Server
	Port          string
	AllowedOrigin string
	RPSLimit      float64
	RPSBurst      int
	StoreConfig   string // JSON provider config, see store.ProviderConfig

	// Scraper
	SourceURLs     []string
	IngestEndpoint string
	RenderMode     string
	MaxLoadMore    int
	NavTimeout     time.Duration
	SettleInterval time.Duration
	HTTPTimeout    time.Duration
}

// Load reads configuration from the environment with defaults. A .env file
// in the working directory is honored when present.
func Load(logger *zap.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file loaded", zap.Error(err))
	}

	cfg := &Config{
		Environment:    getEnv("ENVIRONMENT", "production"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigin:  getEnv("ALLOWED_ORIGIN", "*"),
		RPSLimit:       getEnvFloat("RPS_LIMIT", 50),
		RPSBurst:       getEnvInt("RPS_BURST", 100),
		StoreConfig:    getEnv("WALKS_DB_CONFIG", ""),
		SourceURLs:     getEnvList("SOURCE_URLS"),
		IngestEndpoint: getEnv("INGEST_ENDPOINT", "http://localhost:8080/api/walks"),
		RenderMode:     getEnv("RENDER_MODE", RenderModeChrome),
		MaxLoadMore:    getEnvInt("MAX_LOAD_MORE", 5),
		NavTimeout:     getEnvDuration("NAV_TIMEOUT", 90*time.Second),
		SettleInterval: getEnvDuration("SETTLE_INTERVAL", 4*time.Second),
		HTTPTimeout:    getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
	}

	logger.Info("configuration loaded",
		zap.String("environment", cfg.Environment),
		zap.String("port", cfg.Port),
		zap.Int("source_urls", len(cfg.SourceURLs)),
		zap.String("render_mode", cfg.RenderMode),
	)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	urls := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}
