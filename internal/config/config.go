// Package config reads service settings from the environment, loading a .env
// file first when one is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Graph sources.
const (
	SourceOSM      = "osm"
	SourceNodeLink = "nodelink"
	SourceSQLite   = "sqlite"
	SourcePostgres = "postgres"
)

type Config struct {
	Port     string
	LogLevel string

	GraphSource string
	GraphPath   string
	POICatalog  string

	DatabaseURL string
	SQLitePath  string

	RedisAddr     string
	RouteCacheTTL time.Duration

	SearchMaxExpanded int
	MatrixConcurrency int
}

// LoadDotEnv loads .env into the process environment. A missing file is not an error.
func LoadDotEnv() (bool, error) {
	err := godotenv.Load()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("load .env: %w", err)
}

// Get returns the value of key, or fallback when unset or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) (int, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config %s: %q is not an integer", key, raw)
	}
	return n, nil
}

func GetDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := Get(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("config %s: %q is not a duration", key, raw)
	}
	return d, nil
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	cfg := Config{
		Port:        Get("PORT", "8080"),
		LogLevel:    Get("LOG_LEVEL", "info"),
		GraphSource: strings.ToLower(Get("GRAPH_SOURCE", SourceSQLite)),
		GraphPath:   Get("GRAPH_PATH", ""),
		POICatalog:  Get("POI_CATALOG", "data/pois.yaml"),
		DatabaseURL: Get("DATABASE_URL", ""),
		SQLitePath:  Get("SQLITE_PATH", "data/graph.db"),
		RedisAddr:   Get("REDIS_ADDR", ""),
	}

	var err error
	if cfg.RouteCacheTTL, err = GetDuration("ROUTE_CACHE_TTL", 10*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.SearchMaxExpanded, err = GetInt("SEARCH_MAX_EXPANDED", 0); err != nil {
		return Config{}, err
	}
	if cfg.MatrixConcurrency, err = GetInt("MATRIX_CONCURRENCY", 4); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.GraphSource {
	case SourceOSM, SourceNodeLink:
		if c.GraphPath == "" {
			return fmt.Errorf("config: GRAPH_PATH is required for GRAPH_SOURCE=%s", c.GraphSource)
		}
	case SourceSQLite:
		if c.SQLitePath == "" {
			return errors.New("config: SQLITE_PATH is required for GRAPH_SOURCE=sqlite")
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for GRAPH_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("config: unknown GRAPH_SOURCE %q", c.GraphSource)
	}

	if c.RouteCacheTTL < 0 {
		return errors.New("config: ROUTE_CACHE_TTL must not be negative")
	}
	if c.SearchMaxExpanded < 0 {
		return errors.New("config: SEARCH_MAX_EXPANDED must not be negative")
	}
	if c.MatrixConcurrency < 1 || c.MatrixConcurrency > 64 {
		return errors.New("config: MATRIX_CONCURRENCY must be between 1 and 64")
	}
	return nil
}
