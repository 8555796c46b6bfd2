// Package config loads the service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// DefaultOdosAPIURL points at the prices-API proxy in front of Odos.
const DefaultOdosAPIURL = "https://prices.curve.finance/odos"

// Config is the full service configuration.
type Config struct {
	Host        string
	Port        int
	Environment string
	ServiceName string
	LogLevel    string

	OdosAPIURL string
	EnsoAPIURL string

	// ProviderTimeout is the per-provider budget in the aggregation fan-out.
	ProviderTimeout time.Duration

	// Redis is optional; the route cache stays disabled while Host is empty.
	Redis       RedisConfig
	CacheTTL    time.Duration
	CachePrefix string

	RateLimitRPS   float64
	RateLimitBurst int
}

// RedisConfig holds the optional cache backend settings.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// CacheEnabled reports whether a Redis backend was configured.
func (c *Config) CacheEnabled() bool { return c.Redis.Host != "" }

// Load reads configuration from the environment with defaults matching the
// production deployment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment variables")
	}

	cfg := &Config{
		Host:            getEnv("HOST", "0.0.0.0"),
		Port:            getEnvAsInt("PORT", 3010),
		Environment:     getEnv("APP_ENV", "development"),
		ServiceName:     getEnv("SERVICE_NAME", "router-api"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		OdosAPIURL:      getEnv("ODOS_API_URL", DefaultOdosAPIURL),
		EnsoAPIURL:      getEnv("ENSO_API_URL", ""),
		ProviderTimeout: getEnvAsDuration("PROVIDER_TIMEOUT", 30*time.Second),
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		CacheTTL:       getEnvAsDuration("CACHE_TTL", 10*time.Second),
		CachePrefix:    getEnv("CACHE_PREFIX", "router_api:"),
		RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 0),
		RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),
	}

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	if cfg.ProviderTimeout <= 0 {
		return nil, fmt.Errorf("PROVIDER_TIMEOUT must be positive, got %s", cfg.ProviderTimeout)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
