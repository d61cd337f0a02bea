// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application configuration from environment variables.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"OMENU_DB_PATH" envDefault:"./data/omenu.db"`
	ServerHost string `env:"OMENU_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"OMENU_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"OMENU_ENV" envDefault:"development"`
	LogLevel   string `env:"OMENU_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL    string `env:"OMENU_REDIS_URL"`                       // Optional Redis URL for distributed caching
	CachePrefix string `env:"OMENU_CACHE_PREFIX" envDefault:"omenu:"` // Redis key prefix
	CacheTTL    int    `env:"OMENU_CACHE_TTL" envDefault:"3600"`      // Default cache TTL in seconds

	// Event log retention, in days
	EventRetentionDays int `env:"OMENU_EVENT_RETENTION_DAYS" envDefault:"30"`

	// Seeding configuration
	DoSeed bool `env:"OMENU_DO_SEED" envDefault:"false"` // Enable demo menu seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("OMENU_SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort)
	}
	if cfg.EventRetentionDays < 1 {
		return nil, fmt.Errorf("OMENU_EVENT_RETENTION_DAYS must be positive, got %d", cfg.EventRetentionDays)
	}

	return cfg, nil
}
