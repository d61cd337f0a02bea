// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/omenu-go/internal/model"
)

// Seed creates the default custom content rows for every known section.
// It is safe to call on every startup; existing rows are left untouched.
func Seed(ctx context.Context, db *sql.DB) error {
	queries := New(db)
	now := time.Now()

	for _, section := range model.ValidLocations {
		_, err := queries.GetCustomContentBySection(ctx, section)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("checking custom content for %q: %w", section, err)
		}

		if _, err := queries.CreateCustomContent(ctx, CreateCustomContentParams{
			Section:   section,
			MenuType:  model.MenuTypeManual,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("creating custom content for %q: %w", section, err)
		}
		slog.Info("created default custom content row", "section", section)
	}

	return nil
}

// SeedDemo creates a small demo menu forest for showcasing the service.
// Called after Seed when OMENU_DO_SEED=true; skips if any menu items exist.
func SeedDemo(ctx context.Context, db *sql.DB, enabled bool) error {
	if !enabled {
		return nil
	}

	queries := New(db)

	existing, err := queries.ListMenuItems(ctx)
	if err != nil {
		return fmt.Errorf("listing menu items: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("menu items already exist, skipping demo seed")
		return nil
	}

	slog.Info("seeding demo menus")
	now := time.Now()

	type demoItem struct {
		title    string
		url      string
		parent   string // title of the parent, empty for roots
		position int64
	}

	items := []demoItem{
		{title: "Home", url: "/", position: 0},
		{title: "About", url: "/about", position: 1},
		{title: "Team", url: "/about/team", parent: "About", position: 0},
		{title: "History", url: "/about/history", parent: "About", position: 1},
		{title: "Contact", url: "/contact", position: 2},
	}

	idsByTitle := make(map[string]int64, len(items))
	for _, d := range items {
		var parentID sql.NullInt64
		if d.parent != "" {
			parentID = sql.NullInt64{Int64: idsByTitle[d.parent], Valid: true}
		}

		created, err := queries.CreateMenuItem(ctx, CreateMenuItemParams{
			Title:     d.title,
			URL:       sql.NullString{String: d.url, Valid: true},
			Location:  model.LocationNavbar,
			ParentID:  parentID,
			Position:  d.position,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("creating demo item %q: %w", d.title, err)
		}
		idsByTitle[d.title] = created.ID
	}

	slog.Info("demo menus seeded", "count", len(items))
	return nil
}
