// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/olegiv/omenu-go/internal/model"
)

// MenuCache caches the flat, position-sorted menu item list per location.
// Values are JSON so the cache works over both the memory and Redis backends.
type MenuCache struct {
	cache Cache
}

// NewMenuCache creates a menu cache over the given backend.
func NewMenuCache(c Cache) *MenuCache {
	return &MenuCache{cache: c}
}

func menuKey(location string) string {
	return "menus:" + location
}

// Get returns the cached items for a location, or nil on a miss.
func (c *MenuCache) Get(ctx context.Context, location string) ([]model.MenuItem, error) {
	raw, err := c.cache.Get(ctx, menuKey(location))
	if err != nil {
		if errors.Is(err, ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}

	var items []model.MenuItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// A corrupt entry is treated as a miss and dropped.
		_ = c.cache.Delete(ctx, menuKey(location))
		return nil, nil
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	return items, nil
}

// Set caches the items for a location.
func (c *MenuCache) Set(ctx context.Context, location string, items []model.MenuItem) error {
	if items == nil {
		items = []model.MenuItem{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, menuKey(location), raw, 0)
}

// InvalidateLocation drops the cached items for one location.
func (c *MenuCache) InvalidateLocation(ctx context.Context, location string) {
	_ = c.cache.Delete(ctx, menuKey(location))
}

// Invalidate drops the cached items for all locations.
func (c *MenuCache) Invalidate(ctx context.Context) {
	for _, location := range model.ValidLocations {
		_ = c.cache.Delete(ctx, menuKey(location))
	}
}
