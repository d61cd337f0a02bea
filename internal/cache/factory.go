// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"log/slog"
	"time"
)

// Config holds cache backend configuration.
type Config struct {
	// RedisURL selects the Redis backend when non-empty.
	RedisURL string

	// Prefix is prepended to all Redis keys.
	Prefix string

	// DefaultTTL is the default expiration for cache entries.
	DefaultTTL time.Duration

	// CleanupInterval is the sweep interval for the memory backend.
	CleanupInterval time.Duration
}

// DefaultConfig returns sensible defaults for the memory backend.
func DefaultConfig() Config {
	return Config{
		Prefix:          "omenu:",
		DefaultTTL:      time.Hour,
		CleanupInterval: time.Minute,
	}
}

// New creates a cache from the configuration. When Redis is configured but
// unreachable, it falls back to the memory backend so the service still
// starts.
func New(cfg Config) Cache {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
		if err == nil {
			return rc
		}
		slog.Warn("redis cache unavailable, falling back to memory", "error", err)
	}
	return NewMemoryCache(cfg.DefaultTTL, cfg.CleanupInterval)
}
