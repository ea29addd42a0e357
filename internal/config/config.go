package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	StageProd = "prod"
	StageDev  = "dev"
)

const (
	defaultMigrationDir         = "file://db/migration"
	defaultGridSize             = 10
	defaultMaxPlacementAttempts = 10000
)

// Config holds all configuration for the server.
type Config struct {
	Stage                string
	Port                 int
	DatabaseURL          string
	MigrationDir         string
	GridSize             int
	MaxPlacementAttempts int
}

// Load reads the environment. Outside of prod a .env file
// in the working directory is loaded first if present.
func Load() (*Config, error) {
	if os.Getenv("STAGE") != StageProd {
		if err := godotenv.Load(".env"); err != nil {
			log.Println("no .env file found, relying on environment variables")
		}
	}

	cfg := &Config{
		Stage:        os.Getenv("STAGE"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		MigrationDir: os.Getenv("MIGRATION_DIR"),
	}

	if cfg.Stage != StageDev && cfg.Stage != StageProd {
		return nil, fmt.Errorf("stage must be either dev or prod, got: %q", cfg.Stage)
	}

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.Port = port

	if cfg.MigrationDir == "" {
		cfg.MigrationDir = defaultMigrationDir
	}

	if cfg.GridSize, err = intFromEnv("GRID_SIZE", defaultGridSize); err != nil {
		return nil, err
	}
	if cfg.MaxPlacementAttempts, err = intFromEnv("MAX_PLACEMENT_ATTEMPTS", defaultMaxPlacementAttempts); err != nil {
		return nil, err
	}

	return cfg, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got: %d", key, v)
	}
	return v, nil
}

func (c *Config) AnalyticsEnabled() bool {
	return c.DatabaseURL != ""
}
