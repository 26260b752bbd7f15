// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Convert  ConvertConfig
	Upload   UploadConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Only needed to apply scripts.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 0)
	MinConns int `env:"DB_MIN_CONNS" default:"0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ConvertConfig holds the settings of a command-line conversion run.
type ConvertConfig struct {
	// Variant selects the registered conversion variant (default: full)
	Variant string `env:"CONVERT_VARIANT" default:"full"`

	// ResultsFile is the stage results CSV (default: tdf-2025.csv)
	ResultsFile string `env:"CONVERT_RESULTS_FILE" default:"tdf-2025.csv"`

	// ExitsFile is the exits CSV, read only by variants that emit exits (default: tdf-exits.csv)
	ExitsFile string `env:"CONVERT_EXITS_FILE" default:"tdf-exits.csv"`

	// OutputFile overrides the variant's output file name
	OutputFile string `env:"CONVERT_OUTPUT_FILE"`

	// NullEmptyInts is auto, true or false; auto keeps the variant's behaviour (default: auto)
	NullEmptyInts string `env:"CONVERT_NULL_EMPTY_INTS" default:"auto"`

	// ConflictPolicy is ignore, warn or error (default: warn)
	ConflictPolicy string `env:"CONVERT_CONFLICT_POLICY" default:"warn"`

	// RulesFile is an optional YAML file replacing the variant's correction rules
	RulesFile string `env:"CONVERT_RULES_FILE"`

	// Verify executes the script against an in-memory SQLite schema (default: false)
	Verify bool `env:"CONVERT_VERIFY" default:"false"`

	// Apply executes the script against DATABASE_URL in one transaction (default: false)
	Apply bool `env:"CONVERT_APPLY" default:"false"`
}

// UploadConfig holds HTTP conversion request settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed size of each uploaded file in bytes (default: 32MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"33554432"`

	// MaxConcurrent is the maximum number of parallel conversions (default: 5)
	MaxConcurrent int `env:"UPLOAD_MAX_CONCURRENT" default:"5"`

	// MaxWaitTime is how long to wait for a conversion slot (default: 30s)
	MaxWaitTime time.Duration `env:"UPLOAD_MAX_WAIT_TIME" default:"30s"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey protects the apply endpoint with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// NullEmptyIntsOverride returns nil for auto, otherwise the forced setting.
// The value has already passed Validate.
func (c *ConvertConfig) NullEmptyIntsOverride() *bool {
	v, _ := ParseNullEmptyInts(c.NullEmptyInts)
	return v
}

// ParseNullEmptyInts maps auto to nil and true/false to a forced setting.
func ParseNullEmptyInts(s string) (*bool, error) {
	switch s {
	case "auto", "":
		return nil, nil
	case "true", "false":
		v := s == "true"
		return &v, nil
	}
	return nil, fmt.Errorf("invalid null_empty_ints %q (use auto, true or false)", s)
}
