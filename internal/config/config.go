// Package config loads application configuration from environment variables.
// No other package reads env vars directly. Every external backend is
// optional in development; leaving its variables empty disables it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Env is the runtime environment: "development" or "production".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string

	// LogFormat is "json" or "text".
	LogFormat string

	Fiscal   FiscalConfig
	Redis    RedisConfig
	AWS      AWSConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Mock     MockConfig
}

// FiscalConfig controls the financial calendar.
type FiscalConfig struct {
	// Year is the fiscal year shown on the dashboard (default: current year).
	Year int

	// CacheTTL is how long calendars live in redis.
	CacheTTL time.Duration
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	// Empty disables the shared calendar cache.
	URL string
}

// AWSConfig holds the AWS profile and the S3 export target.
type AWSConfig struct {
	Profile string // mostly for local development
	Region  string

	// Bucket receives calendar exports. Empty disables export.
	Bucket string
}

// DatabaseConfig holds PostgreSQL settings. DATABASE_URL takes precedence;
// otherwise Endpoint/User/Name/Port are used with an RDS IAM auth token.
type DatabaseConfig struct {
	URL string

	Endpoint string // e.g. clearvue.abc123xyz.eu-central-1.rds.amazonaws.com
	User     string
	Name     string
	Port     int
}

// Enabled reports whether any database is configured.
func (d DatabaseConfig) Enabled() bool {
	return d.URL != "" || d.Endpoint != ""
}

// KafkaConfig holds the payment event sink.
type KafkaConfig struct {
	// Brokers is a comma separated list in KAFKA_BROKERS. Empty disables publishing.
	Brokers       []string
	PaymentsTopic string
}

// MockConfig tunes the synthetic data generators.
type MockConfig struct {
	PaymentInterval   time.Duration
	PaymentStreamSize int
	SalesHistoryDays  int

	// Seed pins the random source; 0 seeds from the clock.
	Seed uint64
}

// Load reads configuration from environment variables with sensible defaults.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{
		Env:       getEnv("ENV", "development"),
		Port:      getEnvInt("PORT", 8080),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "text"),

		Fiscal: FiscalConfig{
			Year:     getEnvInt("FISCAL_YEAR", time.Now().Year()),
			CacheTTL: getEnvDuration("FISCAL_CACHE_TTL", 24*time.Hour),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", ""),
		},

		AWS: AWSConfig{
			Profile: getEnv("AWS_PROFILE", ""),
			Region:  getEnv("AWS_REGION", "eu-central-1"),
			Bucket:  getEnv("S3_BUCKET", ""),
		},

		Database: DatabaseConfig{
			URL:      getEnv("DATABASE_URL", ""),
			Endpoint: getEnv("DB_ENDPOINT", ""),
			User:     getEnv("DB_USER", "clearvue"),
			Name:     getEnv("DB_NAME", "clearvue"),
			Port:     getEnvInt("DB_PORT", 5432),
		},

		Kafka: KafkaConfig{
			Brokers:       getEnvList("KAFKA_BROKERS"),
			PaymentsTopic: getEnv("KAFKA_PAYMENTS_TOPIC", "clearvue.payments.simulated"),
		},

		Mock: MockConfig{
			PaymentInterval:   getEnvDuration("PAYMENT_INTERVAL", time.Second),
			PaymentStreamSize: getEnvInt("PAYMENT_STREAM_SIZE", 10),
			SalesHistoryDays:  getEnvInt("SALES_HISTORY_DAYS", 730),
			Seed:              getEnvUint64("MOCK_SEED", 0),
		},
	}

	if cfg.IsProduction() && cfg.Redis.URL == "" {
		return nil, fmt.Errorf("REDIS_URL is required in production")
	}
	if cfg.Mock.PaymentInterval <= 0 {
		return nil, fmt.Errorf("PAYMENT_INTERVAL must be positive, got %s", cfg.Mock.PaymentInterval)
	}
	if cfg.Mock.SalesHistoryDays < 0 {
		return nil, fmt.Errorf("SALES_HISTORY_DAYS must not be negative, got %d", cfg.Mock.SalesHistoryDays)
	}

	return cfg, nil
}

// IsProduction returns true for "production" or "prod", case-insensitively.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Env)
	return env == "production" || env == "prod"
}

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvUint64(key string, defaultVal uint64) uint64 {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.ParseUint(val, 10, 64); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "24h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

// getEnvList splits a comma separated env var, dropping blank entries.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
