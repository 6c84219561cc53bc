package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type fileConfig struct {
	DatabaseURL     string   `yaml:"database_url"`
	ServerPort      string   `yaml:"server_port"`
	RedisURL        string   `yaml:"redis_url"`
	AllowedOrigins  []string `yaml:"allowed_origins"`
	BcryptCost      int      `yaml:"bcrypt_cost"`
	LogLevel        string   `yaml:"log_level"`
	MaxPageSize     int      `yaml:"max_page_size"`
	MigrationsPath  string   `yaml:"migrations_path"`
	ShutdownTimeout string   `yaml:"shutdown_timeout"`
}

// LoadFromFile loads config from a YAML file. database_url is required.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f fileConfig
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	c := defaults()
	c.DatabaseURL = f.DatabaseURL
	c.RedisURL = f.RedisURL
	c.AllowedOrigins = f.AllowedOrigins
	c.MaxPageSize = f.MaxPageSize
	if f.ServerPort != "" {
		c.ServerPort = f.ServerPort
	}
	if f.BcryptCost != 0 {
		c.BcryptCost = f.BcryptCost
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
	if f.MigrationsPath != "" {
		c.MigrationsPath = f.MigrationsPath
	}
	if f.ShutdownTimeout != "" {
		d, err := time.ParseDuration(f.ShutdownTimeout)
		if err != nil {
			return nil, fmt.Errorf("shutdown_timeout: %w", err)
		}
		c.ShutdownTimeout = d
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
