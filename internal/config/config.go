package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"productpage/internal/source"
)

// Product source kinds.
const (
	SourceHTTP = "http"
	SourceFile = "file"
	SourceS3   = "s3"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Product ProductConfig
	S3      S3Config
	Cache   CacheConfig
	Render  RenderConfig
	Logger  LoggerConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// ProductConfig selects where product records come from.
type ProductConfig struct {
	APIURL     string
	DefaultID  string
	Source     string // "http", "file" or "s3"
	FixtureDir string
}

// S3Config holds AWS S3 configuration for product snapshots.
type S3Config struct {
	Bucket string
	Region string
	Prefix string // Path prefix within bucket (e.g., "products/")
}

// CacheConfig holds query cache configuration.
type CacheConfig struct {
	Backend    string // "memory" or "redis"
	TTLSeconds int
	RedisURL   string
}

// RenderConfig holds page rendering options.
type RenderConfig struct {
	Stream bool
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
	File   string // optional rotated log file
}

// Load loads configuration from environment variables. Variables are first
// read from the given .env files (".env" when none is given); variables
// already set in the environment take precedence and a missing file is not
// an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Product: ProductConfig{
			APIURL:     getEnv("PRODUCT_API_URL", "https://api-rakuten-vis.koyeb.app"),
			DefaultID:  getEnv("PRODUCT_ID", "13060247469"),
			Source:     getEnv("PRODUCT_SOURCE", SourceHTTP),
			FixtureDir: getEnv("PRODUCT_FIXTURE_DIR", "testdata/products"),
		},
		S3: S3Config{
			Bucket: getEnv("S3_BUCKET", ""),
			Region: getEnv("S3_REGION", "us-east-1"),
			Prefix: getEnv("S3_PREFIX", "products/"),
		},
		Cache: CacheConfig{
			Backend:    getEnv("CACHE_BACKEND", CacheMemory),
			TTLSeconds: getEnvAsInt("CACHE_TTL_SECONDS", 300),
			RedisURL:   getEnv("REDIS_URL", "redis://localhost:6379/0"),
		},
		Render: RenderConfig{
			Stream: getEnvAsBool("RENDER_STREAM", false),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if !source.ValidID(c.Product.DefaultID) {
		return fmt.Errorf("invalid default product id: %q", c.Product.DefaultID)
	}

	switch c.Product.Source {
	case SourceHTTP:
		u, err := url.Parse(c.Product.APIURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid product API URL: %q", c.Product.APIURL)
		}
	case SourceFile:
		if c.Product.FixtureDir == "" {
			return fmt.Errorf("fixture directory is required when the product source is file")
		}
	case SourceS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3 bucket is required when the product source is s3")
		}
		if c.S3.Region == "" {
			return fmt.Errorf("S3 region is required when the product source is s3")
		}
	default:
		return fmt.Errorf("invalid product source: %s (must be http, file, or s3)", c.Product.Source)
	}

	switch c.Cache.Backend {
	case CacheMemory:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			return fmt.Errorf("redis URL is required when the cache backend is redis")
		}
	default:
		return fmt.Errorf("invalid cache backend: %s (must be memory or redis)", c.Cache.Backend)
	}

	if c.Cache.TTLSeconds < 1 {
		return fmt.Errorf("cache TTL must be at least 1 second")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// TTL returns the cache TTL as a duration.
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
