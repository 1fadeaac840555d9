package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	MarketData MarketDataConfig
	Cache      CacheConfig
	Scheduler  SchedulerConfig
	Log        LogConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// MarketDataConfig holds settings for the external quote and history source.
type MarketDataConfig struct {
	// QuoteBaseURL is the base URL of the quote API (batch and single-symbol
	// endpoints live under it). Overridable so tests can point at a local server.
	QuoteBaseURL string
	// HistoryBaseURL is the base URL of the historical chart API.
	HistoryBaseURL string
	// MarketSuffix is appended to bare symbols on the last resolution tier
	// (e.g. ".AS" for the local exchange).
	MarketSuffix string
	// FetchConcurrency bounds simultaneous in-flight symbol requests.
	FetchConcurrency int
	// RequestTimeout applies per outbound HTTP call.
	RequestTimeout time.Duration
	// RequestsPerSecond throttles all outbound calls to the upstream source.
	RequestsPerSecond float64
}

// CacheConfig holds freshness windows for the price caches.
type CacheConfig struct {
	BatchQuoteTTL    time.Duration
	FallbackQuoteTTL time.Duration
}

// SchedulerConfig holds background job configuration.
type SchedulerConfig struct {
	// QuoteRefreshSchedule is a cron expression for the cache-warming quote
	// refresh job. Empty disables the job.
	QuoteRefreshSchedule string
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/valuation_engine.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
		MarketData: MarketDataConfig{
			QuoteBaseURL:      getEnv("QUOTE_BASE_URL", "https://query1.finance.yahoo.com"),
			HistoryBaseURL:    getEnv("HISTORY_BASE_URL", "https://query1.finance.yahoo.com"),
			MarketSuffix:      getEnv("MARKET_SUFFIX", ".AS"),
			FetchConcurrency:  getEnvInt("FETCH_CONCURRENCY", 4),
			RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
			RequestsPerSecond: getEnvFloat("REQUESTS_PER_SECOND", 5),
		},
		Cache: CacheConfig{
			BatchQuoteTTL:    getEnvDuration("BATCH_QUOTE_TTL", 2*time.Minute),
			FallbackQuoteTTL: getEnvDuration("FALLBACK_QUOTE_TTL", 5*time.Minute),
		},
		Scheduler: SchedulerConfig{
			QuoteRefreshSchedule: getEnv("QUOTE_REFRESH_SCHEDULE", "@every 5m"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getEnvBool("LOG_PRETTY", false),
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvFloat gets a float environment variable or returns a default value
func getEnvFloat(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvBool gets a boolean environment variable or returns a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// getEnvDuration gets a duration environment variable or returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
