package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	// DBPath is the SQLite database file. Empty selects the in-memory store.
	DBPath string

	// SensorPort is the serial device the SDS011 is attached to.
	SensorPort string

	// ReadInterval controls how often the sensor is polled.
	ReadInterval time.Duration

	// In-memory store retention (only used when DBPath is empty).
	StoreMaxHistory int           // max number of readings (0 = unlimited)
	StoreMaxAge     time.Duration // max age of readings (0 = unlimited)

	Port     string
	AppEnv   string // "dev" or "prod"; selects the log output format
	LogLevel slog.Level
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	// A missing .env file is normal outside development.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.DBPath = getenvDefault("PUFF_DB_PATH", "sensor_data.db")
	cfg.SensorPort = getenvDefault("PUFF_SENSOR_PORT", "/dev/ttyUSB0")

	intervalStr := getenvDefault("PUFF_READ_INTERVAL", "5s")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PUFF_READ_INTERVAL: %w", err)
	}
	cfg.ReadInterval = interval

	cfg.StoreMaxHistory = getenvInt("PUFF_STORE_MAX_HISTORY", 17280) // roughly 24h at 5-second intervals

	maxAgeStr := getenvDefault("PUFF_STORE_MAX_AGE", "720h")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PUFF_STORE_MAX_AGE: %w", err)
	}
	cfg.StoreMaxAge = maxAge

	cfg.Port = getenvDefault("PUFF_PORT", "8080")

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")
	if cfg.AppEnv != "dev" && cfg.AppEnv != "prod" {
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", cfg.AppEnv)
	}

	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	return cfg, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
