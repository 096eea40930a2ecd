package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	StoreDriver    string
	DBPath         string
	PostgresDSN    string
	ServerPort     string
	LogLevel       string
	SeedSource     string
	CORSOrigins    []string
	MetricsEnabled bool

	envFileLoaded bool
}

// Load reads .env when present, then the environment. It runs before the
// logger exists because the logger takes its level from LOG_LEVEL.
func Load() (*Config, error) {
	envErr := godotenv.Load()

	cfg := &Config{
		StoreDriver:    strings.ToLower(getEnv("STORE_DRIVER", StoreSQLite)),
		DBPath:         getEnv("DB_PATH", "auction.db"),
		PostgresDSN:    getEnv("POSTGRES_DSN", ""),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		SeedSource:     getEnv("SEED_SOURCE", ""),
		CORSOrigins:    getListEnv("CORS_ORIGINS", []string{"*"}),
		MetricsEnabled: getBoolEnv("METRICS_ENABLED", true),
		envFileLoaded:  envErr == nil,
	}

	switch cfg.StoreDriver {
	case StoreSQLite, StoreMemory:
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("POSTGRES_DSN is required when STORE_DRIVER=postgres")
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

// Log reports the loaded settings.
func (c *Config) Log(logger zerolog.Logger) {
	if !c.envFileLoaded {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	logger.Info().
		Str("store_driver", c.StoreDriver).
		Str("db_path", c.DBPath).
		Str("server_port", c.ServerPort).
		Str("log_level", c.LogLevel).
		Bool("seeding", c.SeedSource != "").
		Bool("metrics_enabled", c.MetricsEnabled).
		Msg("configuration loaded")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	switch {
	case raw == "":
		return fallback
	case raw == "1" || strings.EqualFold(raw, "true") || strings.EqualFold(raw, "yes"):
		return true
	case raw == "0" || strings.EqualFold(raw, "false") || strings.EqualFold(raw, "no"):
		return false
	}
	return fallback
}

func getListEnv(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

var Module = fx.Provide(Load)
