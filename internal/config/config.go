// Package config handles application configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/recordkit/recordkit/internal/fetch"
)

// Config holds all configuration for the application.
type Config struct {
	App      AppConfig
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Fetch    FetchConfig
	Records  RecordsConfig
	Rate     RateLimitConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Env            string
	LogLevel       string
	MetricsEnabled bool
}

// IsDevelopment returns true if the app is running in development mode.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development" || a.Env == "dev"
}

// IsProduction returns true if the app is running in production mode.
func (a AppConfig) IsProduction() bool {
	return a.Env == "production" || a.Env == "prod"
}

// ServerConfig holds server-specific configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	TrustProxy      bool
}

// Address returns the server address in host:port format.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
}

// FetchConfig holds the upstream fetch configuration.
type FetchConfig struct {
	URL      string
	CacheTTL time.Duration
}

// RecordsConfig holds record storage configuration.
type RecordsConfig struct {
	CacheTTL time.Duration
}

// RateLimitConfig holds per-client rate limiting configuration.
type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// App config
	cfg.App.Env = getEnvOrDefault("APP_ENV", "development")
	cfg.App.LogLevel = getEnvOrDefault("LOG_LEVEL", "info")
	if cfg.App.MetricsEnabled, err = getEnvAsBool("METRICS_ENABLED", true); err != nil {
		return nil, fmt.Errorf("invalid METRICS_ENABLED: %w", err)
	}

	// Server config
	cfg.Server.Host = getEnvOrDefault("SERVER_HOST", "0.0.0.0")
	if cfg.Server.Port, err = getEnvAsInt("SERVER_PORT", 8080); err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT: %w", err)
	}
	if cfg.Server.ReadTimeout, err = getEnvAsDuration("SERVER_READ_TIMEOUT", 5*time.Second); err != nil {
		return nil, fmt.Errorf("invalid SERVER_READ_TIMEOUT: %w", err)
	}
	if cfg.Server.WriteTimeout, err = getEnvAsDuration("SERVER_WRITE_TIMEOUT", 10*time.Second); err != nil {
		return nil, fmt.Errorf("invalid SERVER_WRITE_TIMEOUT: %w", err)
	}
	if cfg.Server.ShutdownTimeout, err = getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second); err != nil {
		return nil, fmt.Errorf("invalid SERVER_SHUTDOWN_TIMEOUT: %w", err)
	}
	if cfg.Server.TrustProxy, err = getEnvAsBool("SERVER_TRUST_PROXY", false); err != nil {
		return nil, fmt.Errorf("invalid SERVER_TRUST_PROXY: %w", err)
	}

	// Database config
	cfg.Database.Host = getEnvOrDefault("DB_HOST", "localhost")
	if cfg.Database.Port, err = getEnvAsInt("DB_PORT", 5432); err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	cfg.Database.User = getEnvOrDefault("DB_USER", "recordkit")
	cfg.Database.Password = getEnvOrDefault("DB_PASSWORD", "")
	cfg.Database.DBName = getEnvOrDefault("DB_NAME", "recordkit")
	cfg.Database.SSLMode = getEnvOrDefault("DB_SSLMODE", "disable")
	if cfg.Database.MaxOpenConns, err = getEnvAsInt("DB_MAX_OPEN_CONNS", 25); err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}
	if cfg.Database.MaxIdleConns, err = getEnvAsInt("DB_MAX_IDLE_CONNS", 5); err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_IDLE_CONNS: %w", err)
	}
	if cfg.Database.ConnMaxLifetime, err = getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute); err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}

	// Redis config
	cfg.Redis.Host = getEnvOrDefault("REDIS_HOST", "")
	if cfg.Redis.Port, err = getEnvAsInt("REDIS_PORT", 6379); err != nil {
		return nil, fmt.Errorf("invalid REDIS_PORT: %w", err)
	}
	cfg.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", "")
	if cfg.Redis.DB, err = getEnvAsInt("REDIS_DB", 0); err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.Redis.PoolSize, err = getEnvAsInt("REDIS_POOL_SIZE", 10); err != nil {
		return nil, fmt.Errorf("invalid REDIS_POOL_SIZE: %w", err)
	}

	// Fetch config
	cfg.Fetch.URL = getEnvOrDefault("FETCH_URL", fetch.DefaultURL)
	if cfg.Fetch.CacheTTL, err = getEnvAsDuration("FETCH_CACHE_TTL", 0); err != nil {
		return nil, fmt.Errorf("invalid FETCH_CACHE_TTL: %w", err)
	}

	// Records config
	if cfg.Records.CacheTTL, err = getEnvAsDuration("RECORD_CACHE_TTL", time.Hour); err != nil {
		return nil, fmt.Errorf("invalid RECORD_CACHE_TTL: %w", err)
	}

	// Rate limit config
	if cfg.Rate.Enabled, err = getEnvAsBool("RATE_LIMIT_ENABLED", false); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_ENABLED: %w", err)
	}
	if cfg.Rate.Requests, err = getEnvAsInt("RATE_LIMIT_REQUESTS", 100); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
	}
	if cfg.Rate.Window, err = getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validation errors
var (
	ErrInvalidPort     = errors.New("port must be between 0 and 65535")
	ErrNegativeTTL     = errors.New("cache TTL cannot be negative")
	ErrEmptyFetchURL   = errors.New("fetch URL cannot be empty")
	ErrInvalidPoolSize = errors.New("pool size must be positive")
	ErrInvalidRate     = errors.New("rate limit requests and window must be positive")
)

// Validate checks the loaded values for consistency.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT: %w", ErrInvalidPort)
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT: %w", ErrInvalidPort)
	}
	if c.Redis.Port < 0 || c.Redis.Port > 65535 {
		return fmt.Errorf("REDIS_PORT: %w", ErrInvalidPort)
	}
	if c.Redis.PoolSize <= 0 {
		return fmt.Errorf("REDIS_POOL_SIZE: %w", ErrInvalidPoolSize)
	}
	if c.Fetch.CacheTTL < 0 {
		return fmt.Errorf("FETCH_CACHE_TTL: %w", ErrNegativeTTL)
	}
	if c.Records.CacheTTL < 0 {
		return fmt.Errorf("RECORD_CACHE_TTL: %w", ErrNegativeTTL)
	}
	if c.Fetch.URL == "" {
		return ErrEmptyFetchURL
	}
	if c.Rate.Enabled && (c.Rate.Requests <= 0 || c.Rate.Window <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS/RATE_LIMIT_WINDOW: %w", ErrInvalidRate)
	}
	return nil
}

// DatabaseEnabled returns true if database configuration is provided.
func (c *Config) DatabaseEnabled() bool {
	return c.Database.Host != "" && c.Database.Password != ""
}

// RedisEnabled returns true if Redis configuration is provided.
func (c *Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// FetchCacheEnabled returns true if fetched payloads should be cached.
// Without Redis the cache is kept in process.
func (c *Config) FetchCacheEnabled() bool {
	return c.Fetch.CacheTTL > 0
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt returns the environment variable as an integer.
func getEnvAsInt(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(valueStr)
}

// getEnvAsBool returns the environment variable as a boolean.
func getEnvAsBool(key string, defaultValue bool) (bool, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	return strconv.ParseBool(valueStr)
}

// getEnvAsDuration returns the environment variable as a duration.
func getEnvAsDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	return time.ParseDuration(valueStr)
}
