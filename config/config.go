package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rankboard/adapters/redis"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// Config holds the complete application configuration
type Config struct {
	Environment Environment `json:"environment" env:"RANKBOARD_ENV"`

	Board    BoardConfig    `json:"board"`
	Server   ServerConfig   `json:"server"`
	Events   EventsConfig   `json:"events"`
	Logging  LoggingConfig  `json:"logging"`
	Security SecurityConfig `json:"security"`
}

// BoardConfig sizes the leaderboard.
type BoardConfig struct {
	Capacity int `json:"capacity" env:"RANKBOARD_BOARD_CAPACITY"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Address           string        `json:"address" env:"RANKBOARD_SERVER_ADDR"`
	PathPrefix        string        `json:"path_prefix" env:"RANKBOARD_SERVER_PATH_PREFIX"`
	CORSOrigin        string        `json:"cors_origin" env:"RANKBOARD_SERVER_CORS_ORIGIN"`
	ReadTimeout       time.Duration `json:"read_timeout" env:"RANKBOARD_SERVER_READ_TIMEOUT"`
	WriteTimeout      time.Duration `json:"write_timeout" env:"RANKBOARD_SERVER_WRITE_TIMEOUT"`
	IdleTimeout       time.Duration `json:"idle_timeout" env:"RANKBOARD_SERVER_IDLE_TIMEOUT"`
	ReadHeaderTimeout time.Duration `json:"read_header_timeout" env:"RANKBOARD_SERVER_READ_HEADER_TIMEOUT"`
	ShutdownTimeout   time.Duration `json:"shutdown_timeout" env:"RANKBOARD_SERVER_SHUTDOWN_TIMEOUT"`
	MetricsEnabled    bool          `json:"metrics_enabled" env:"RANKBOARD_SERVER_METRICS_ENABLED"`
}

// EventsConfig selects how board events are dispatched and where they go.
type EventsConfig struct {
	Dispatch     string       `json:"dispatch" env:"RANKBOARD_EVENTS_DISPATCH"`
	RedisEnabled bool         `json:"redis_enabled" env:"RANKBOARD_EVENTS_REDIS_ENABLED"`
	Redis        redis.Config `json:"redis,omitempty"`
	Webhooks     []string     `json:"webhooks,omitempty" env:"RANKBOARD_EVENTS_WEBHOOKS"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string            `json:"level" env:"RANKBOARD_LOG_LEVEL"`
	Format     string            `json:"format" env:"RANKBOARD_LOG_FORMAT"`
	Output     string            `json:"output" env:"RANKBOARD_LOG_OUTPUT"`
	Attributes map[string]string `json:"attributes,omitempty" env:"RANKBOARD_LOG_ATTRIBUTES"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	EnableRateLimit bool            `json:"enable_rate_limit" env:"RANKBOARD_SECURITY_RATE_LIMIT_ENABLED"`
	RateLimit       RateLimitConfig `json:"rate_limit,omitempty"`
	APIKeys         []string        `json:"api_keys,omitempty" env:"RANKBOARD_SECURITY_API_KEYS"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int `json:"requests_per_minute" env:"RANKBOARD_SECURITY_RATE_LIMIT_RPM"`
	BurstSize         int `json:"burst_size" env:"RANKBOARD_SECURITY_RATE_LIMIT_BURST"`
}

// Load loads configuration from the environment (after any .env file) and validates it
func Load() (*Config, error) {
	cfg := DefaultConfig()
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a JSON file; environment variables
// override file values.
func LoadFromFile(path string) (*Config, error) {
	clean := filepath.Clean(path)
	if !strings.HasSuffix(strings.ToLower(clean), ".json") {
		return nil, fmt.Errorf("invalid config file path %s: must have .json extension", path)
	}
	data, err := os.ReadFile(clean) // #nosec G304 - operator-supplied config path
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns a configuration with sensible defaults for development
func DefaultConfig() *Config {
	return &Config{
		Environment: EnvDevelopment,
		Board: BoardConfig{
			Capacity: 10,
		},
		Server: ServerConfig{
			Address:           ":8080",
			PathPrefix:        "/api",
			CORSOrigin:        "*",
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   30 * time.Second,
		},
		Events: EventsConfig{
			Dispatch: "async",
			Redis:    redis.DefaultConfig(),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				RequestsPerMinute: 60,
				BurstSize:         10,
			},
		},
	}
}

// Validate validates the configuration and returns detailed error messages
func (c *Config) Validate() error {
	var errs []string

	if c.Environment == "" {
		errs = append(errs, "environment cannot be empty")
	}

	sections := []struct {
		name string
		fn   func() error
	}{
		{"board", c.Board.Validate},
		{"server", c.Server.Validate},
		{"events", c.Events.Validate},
		{"logging", c.Logging.Validate},
		{"security", c.Security.Validate},
	}
	for _, s := range sections {
		if err := s.fn(); err != nil {
			errs = append(errs, fmt.Sprintf("%s config: %v", s.name, err))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// String returns a JSON representation of the config (with secrets redacted)
func (c *Config) String() string {
	cfg := *c
	if cfg.Events.Redis.Password != "" {
		cfg.Events.Redis.Password = "[REDACTED]"
	}
	if len(cfg.Security.APIKeys) > 0 {
		cfg.Security.APIKeys = []string{"[REDACTED]"}
	}
	data, _ := json.MarshalIndent(cfg, "", "  ")
	return string(data)
}
