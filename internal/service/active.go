// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/olegiv/omenu-go/internal/model"
	"github.com/olegiv/omenu-go/internal/store"
)

// ActiveSet is the set of render targets currently selected for a location.
type ActiveSet map[model.ActiveTarget]struct{}

// NewActiveSet builds an ActiveSet from targets.
func NewActiveSet(targets ...model.ActiveTarget) ActiveSet {
	s := make(ActiveSet, len(targets))
	for _, t := range targets {
		s[t] = struct{}{}
	}
	return s
}

// ParseActiveSet builds an ActiveSet from wire identifiers, skipping any
// value that is neither "custom" nor a decimal menu id.
func ParseActiveSet(ids []string) ActiveSet {
	s := make(ActiveSet, len(ids))
	for _, raw := range ids {
		if t, ok := model.ParseActiveTarget(raw); ok {
			s[t] = struct{}{}
		}
	}
	return s
}

// Has reports whether the target is in the set.
func (s ActiveSet) Has(t model.ActiveTarget) bool {
	_, ok := s[t]
	return ok
}

// HasCustom reports whether the custom sentinel is in the set.
func (s ActiveSet) HasCustom() bool {
	return s.Has(model.CustomTarget())
}

// MenuIDs returns the menu item ids in the set, ascending.
func (s ActiveSet) MenuIDs() []int64 {
	ids := make([]int64, 0, len(s))
	for t := range s {
		if !t.Custom {
			ids = append(ids, t.MenuID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Strings returns the wire form of the set: menu ids ascending, then the
// custom sentinel.
func (s ActiveSet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, id := range s.MenuIDs() {
		out = append(out, model.MenuTarget(id).String())
	}
	if s.HasCustom() {
		out = append(out, model.CustomSentinel)
	}
	return out
}

// clone returns a copy of the set.
func (s ActiveSet) clone() ActiveSet {
	c := make(ActiveSet, len(s))
	for t := range s {
		c[t] = struct{}{}
	}
	return c
}

// ToggleActive computes the new active set after a click on target. The
// target's whole subtree toggles as a unit: it is considered active only
// when every member is already in the set, so the first click on a
// partially-active subtree activates the rest instead of deactivating it.
// Unknown targets are a no-op since the caller's view may be stale.
// Pure function; items is the flat, position-sorted list for the location.
func ToggleActive(items []model.MenuItem, target model.ActiveTarget, current ActiveSet) ActiveSet {
	var toToggle []model.ActiveTarget

	if target.Custom {
		// The custom block is a unit with no descendants.
		toToggle = []model.ActiveTarget{target}
	} else {
		childIDs := make(map[int64][]int64, len(items))
		known := make(map[int64]bool, len(items))
		for _, item := range items {
			known[item.ID] = true
			if item.ParentID.Valid {
				childIDs[item.ParentID.Int64] = append(childIDs[item.ParentID.Int64], item.ID)
			}
		}
		if !known[target.MenuID] {
			return current.clone()
		}

		visited := make(map[int64]bool, len(items))
		var collect func(id int64)
		collect = func(id int64) {
			if visited[id] {
				return
			}
			visited[id] = true
			toToggle = append(toToggle, model.MenuTarget(id))
			for _, childID := range childIDs[id] {
				collect(childID)
			}
		}
		collect(target.MenuID)
	}

	allActive := true
	for _, t := range toToggle {
		if !current.Has(t) {
			allActive = false
			break
		}
	}

	next := current.clone()
	for _, t := range toToggle {
		if allActive {
			delete(next, t)
		} else {
			next[t] = struct{}{}
		}
	}
	return next
}

// CommitActive persists an active set for a location: a reset-then-set pair
// of bulk updates on the menu items, plus the "custom" sentinel on the
// section's custom content row. Custom content with an empty HTML body is
// never marked active, and a missing row makes the sentinel ineligible.
func (s *MenuService) CommitActive(ctx context.Context, location string, set ActiveSet) error {
	if location == "" {
		return &ValidationError{Message: "section is required"}
	}
	if !model.IsValidLocation(location) {
		return &ValidationError{Message: "invalid section: " + location}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &TransactionError{Err: fmt.Errorf("beginning transaction: %w", err)}
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	now := time.Now()

	if err := qtx.ResetActiveByLocation(ctx, store.ResetActiveByLocationParams{
		Location:  location,
		UpdatedAt: now,
	}); err != nil {
		return &TransactionError{Err: fmt.Errorf("resetting active menus: %w", err)}
	}

	if err := qtx.SetMenuItemsActive(ctx, store.SetMenuItemsActiveParams{
		Location:  location,
		IDs:       set.MenuIDs(),
		UpdatedAt: now,
	}); err != nil {
		return &TransactionError{Err: fmt.Errorf("setting active menus: %w", err)}
	}

	cc, err := qtx.GetCustomContentBySection(ctx, location)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// No row means the custom block was deleted; it can't be activated.
	case err != nil:
		return &TransactionError{Err: fmt.Errorf("loading custom content: %w", err)}
	default:
		activeMenuID := sql.NullString{}
		if set.HasCustom() && cc.HTML != "" {
			activeMenuID = sql.NullString{String: model.CustomSentinel, Valid: true}
		}
		if err := qtx.SetCustomContentActiveMenuID(ctx, store.SetCustomContentActiveMenuIDParams{
			Section:      location,
			ActiveMenuID: activeMenuID,
			UpdatedAt:    now,
		}); err != nil {
			return &TransactionError{Err: fmt.Errorf("updating custom content sentinel: %w", err)}
		}
	}

	if err := tx.Commit(); err != nil {
		return &TransactionError{Err: fmt.Errorf("committing transaction: %w", err)}
	}

	s.InvalidateCache(ctx, location)
	slog.Info("active menus committed", "location", location, "count", len(set))
	return nil
}
