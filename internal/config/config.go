package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingDatabaseURL is returned when no database URL is configured.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// Config holds application configuration.
type Config struct {
	DatabaseURL     string        `yaml:"database_url" env:"DATABASE_URL"`
	ServerPort      string        `yaml:"server_port" env:"SERVER_PORT"`
	RedisURL        string        `yaml:"redis_url" env:"REDIS_URL"`
	AllowedOrigins  []string      `yaml:"allowed_origins" env:"ALLOWED_ORIGINS"`
	BcryptCost      int           `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
	LogLevel        string        `yaml:"log_level" env:"LOG_LEVEL"`
	MaxPageSize     int           `yaml:"max_page_size" env:"MAX_PAGE_SIZE"`
	MigrationsPath  string        `yaml:"migrations_path" env:"MIGRATIONS_PATH"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

func defaults() *Config {
	return &Config{
		ServerPort:      "8080",
		BcryptCost:      10,
		LogLevel:        "info",
		MigrationsPath:  "migrations",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load builds config from environment variables.
// If DATABASE_URL is not set, Load first loads .env.local and .env from the
// current directory and the executable's directory.
// DATABASE_URL is required; everything else has a default.
func Load() (*Config, error) {
	if os.Getenv("DATABASE_URL") == "" {
		loadEnvFiles()
	}
	c := defaults()
	c.DatabaseURL = os.Getenv("DATABASE_URL")
	c.RedisURL = os.Getenv("REDIS_URL")
	c.AllowedOrigins = splitList(os.Getenv("ALLOWED_ORIGINS"))
	if s := os.Getenv("SERVER_PORT"); s != "" {
		c.ServerPort = s
	}
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		c.LogLevel = s
	}
	if s := os.Getenv("MIGRATIONS_PATH"); s != "" {
		c.MigrationsPath = s
	}
	var err error
	if c.BcryptCost, err = envInt("BCRYPT_COST", c.BcryptCost); err != nil {
		return nil, err
	}
	if c.MaxPageSize, err = envInt("MAX_PAGE_SIZE", c.MaxPageSize); err != nil {
		return nil, err
	}
	if s := os.Getenv("SHUTDOWN_TIMEOUT"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
		c.ShutdownTimeout = d
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return ErrMissingDatabaseURL
	}
	if c.MaxPageSize < 0 {
		return fmt.Errorf("max page size must not be negative, got %d", c.MaxPageSize)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout)
	}
	return nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

// splitList splits a comma-separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
