// Package config provides centralized configuration loaded from environment
// variables. Shared by cmd/api and cmd/matchup.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/albapepper/scoracle-matchup/internal/table"
)

// --------------------------------------------------------------------------
// Data sources: the three JSON documents every load reads
// --------------------------------------------------------------------------

const (
	FullSeasonFile = "fullseason.json"
	LastFiveFile   = "lastfive.json"
	TeamsFile      = "teams.json"
)

// Source kinds for DATA_SOURCE.
const (
	SourceFile     = "file"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

// DatasetsTable holds one JSON document per dataset name, matches schema.sql.
const DatasetsTable = "datasets"

// UpdateChannel is the Postgres NOTIFY channel raised when a dataset changes.
const UpdateChannel = "dataset_updated"

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Data
	DataSource     string // file, http, postgres
	DataDir        string
	DataBaseURL    string
	FullSeasonFile string
	LastFiveFile   string
	TeamsFile      string
	RefreshEvery   time.Duration // 0 disables periodic reloads

	// Fetch (HTTP source)
	FetchRetries       int
	FetchRetryDelay    time.Duration
	FetchTimeout       time.Duration
	BreakerThreshold   int
	BreakerWindow      time.Duration
	FetchRatePerSecond float64
	FetchMaxBytes      int64

	// Cache
	CacheEnabled bool
	CacheTTL     time.Duration
	CacheMaxSize int
	RedisURL     string

	// UI
	MaxSearchResults int
	MaxHistory       int
	GradientStops    []table.Stop

	// Database
	DatabaseURL    string
	DBPoolMinConns int
	DBPoolMaxConns int
	DBPoolMaxLife  time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		DataSource:     strings.ToLower(envOr("DATA_SOURCE", SourceFile)),
		DataDir:        envOr("DATA_DIR", "data"),
		DataBaseURL:    strings.TrimRight(envOr("DATA_BASE_URL", ""), "/"),
		FullSeasonFile: envOr("FULL_SEASON_FILE", FullSeasonFile),
		LastFiveFile:   envOr("LAST_FIVE_FILE", LastFiveFile),
		TeamsFile:      envOr("TEAMS_FILE", TeamsFile),
		RefreshEvery:   envDuration("REFRESH_INTERVAL", 0),

		FetchRetries:       envInt("FETCH_RETRIES", 3),
		FetchRetryDelay:    envDuration("FETCH_RETRY_DELAY", time.Second),
		FetchTimeout:       envDuration("FETCH_TIMEOUT", 10*time.Second),
		BreakerThreshold:   envInt("BREAKER_THRESHOLD", 3),
		BreakerWindow:      envDuration("BREAKER_WINDOW", 5*time.Minute),
		FetchRatePerSecond: envFloat("FETCH_RATE_PER_SECOND", 5),
		FetchMaxBytes:      int64(envInt("FETCH_MAX_BYTES", 10<<20)),

		CacheEnabled: envBool("CACHE_ENABLED", true),
		CacheTTL:     envDuration("CACHE_TTL", 5*time.Minute),
		CacheMaxSize: envInt("CACHE_MAX_SIZE", 50),
		RedisURL:     envOr("REDIS_URL", ""),

		MaxSearchResults: envInt("MAX_SEARCH_RESULTS", 50),
		MaxHistory:       envInt("MAX_HISTORY", 10),
		GradientStops:    table.DefaultStops,

		DatabaseURL:    envOr("DATABASE_URL", envOr("NEON_DATABASE_URL", "")),
		DBPoolMinConns: envInt("DB_POOL_MIN_CONNS", 2),
		DBPoolMaxConns: envInt("DB_POOL_MAX_CONNS", 10),
		DBPoolMaxLife:  time.Duration(envInt("DB_POOL_MAX_LIFE_MINUTES", 30)) * time.Minute,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 8000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:4321",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 100),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DataSource {
	case SourceFile:
	case SourceHTTP:
		if c.DataBaseURL == "" {
			return fmt.Errorf("DATA_BASE_URL must be set when DATA_SOURCE=%s", SourceHTTP)
		}
	case SourcePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL or NEON_DATABASE_URL must be set when DATA_SOURCE=%s", SourcePostgres)
		}
	default:
		return fmt.Errorf("unknown DATA_SOURCE %q (want file, http or postgres)", c.DataSource)
	}
	if c.FetchRetries < 1 {
		return fmt.Errorf("FETCH_RETRIES must be at least 1, got %d", c.FetchRetries)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout)
	}
	return nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesDatabase reports whether a Postgres pool is needed.
func (c *Config) UsesDatabase() bool {
	return c.DataSource == SourcePostgres
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

// envDuration accepts Go durations ("90s") or whole seconds ("90").
func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
