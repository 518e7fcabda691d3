package config

import (
	"os"
	"strconv"

	"procova/internal/errors"

	"github.com/joho/godotenv"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Data     DataConfig
	Sweep    SweepConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds the optional run-persistence settings
type DatabaseConfig struct {
	URL string // empty disables persistence
}

// DataConfig points at the historical dataset served by the API
type DataConfig struct {
	File      string
	Outcome   string
	Treatment string
}

// SweepConfig bounds the sample-size sweep parallelism
type SweepConfig struct {
	Parallelism int
}

// Load reads configuration from the environment (and .env if present)
func Load() (*Config, error) {
	// Missing .env is fine; the environment may be fully set already
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PROCOVA_PORT", "8089"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Data: DataConfig{
			File:      os.Getenv("DATA_FILE"),
			Outcome:   getEnv("DATA_OUTCOME", "outcome"),
			Treatment: getEnv("DATA_TREATMENT", "treatment"),
		},
		Sweep: SweepConfig{
			Parallelism: getEnvInt("SWEEP_PARALLELISM", 4),
		},
	}

	if cfg.Sweep.Parallelism < 1 {
		return nil, errors.ConfigInvalid("SWEEP_PARALLELISM must be at least 1")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
