// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/olegiv/omenu-go/internal/model"
	"github.com/olegiv/omenu-go/internal/store"
)

// ApplyHierarchy persists a client-submitted tree for one location.
// The forest is walked pre-order: each node's parent_id is set to the id of
// the node it was nested under and its position to its index in the sibling
// list, which makes a node becoming its own descendant's child impossible by
// construction. The update is a single transaction; any failing node rolls
// the whole tree back.
func (s *MenuService) ApplyHierarchy(ctx context.Context, tree []TreeNode, location string) error {
	if location == "" {
		return &ValidationError{Message: "location is required"}
	}
	if !model.IsValidLocation(location) {
		return &ValidationError{Message: "invalid location: " + location}
	}

	// Fail fast before any writes: every node must carry a persisted id,
	// and a duplicated id could smuggle a cycle past the pre-order rewrite.
	seen := make(map[int64]bool)
	if err := validateTree(tree, seen); err != nil {
		return err
	}

	lock := s.locationLock(location)
	lock.Lock()
	defer lock.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &TransactionError{Err: fmt.Errorf("beginning transaction: %w", err)}
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	now := time.Now()

	if err := applyLevel(ctx, qtx, tree, nil, location, now); err != nil {
		return &TransactionError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &TransactionError{Err: fmt.Errorf("committing transaction: %w", err)}
	}

	s.InvalidateCache(ctx, location)
	slog.Info("menu hierarchy applied", "location", location)
	return nil
}

// validateTree checks that every node has an id and no id appears twice.
func validateTree(nodes []TreeNode, seen map[int64]bool) error {
	for _, n := range nodes {
		if n.ID == 0 {
			return &ValidationError{Message: "menu tree contains a node without an id"}
		}
		if seen[n.ID] {
			return &ValidationError{Message: fmt.Sprintf("menu tree contains duplicate id %d", n.ID)}
		}
		seen[n.ID] = true
		if err := validateTree(n.Children, seen); err != nil {
			return err
		}
	}
	return nil
}

// applyLevel writes one sibling level and recurses into children.
func applyLevel(ctx context.Context, qtx *store.Queries, nodes []TreeNode, parentID *int64, location string, now time.Time) error {
	for i, n := range nodes {
		var parent sql.NullInt64
		if parentID != nil {
			parent = sql.NullInt64{Int64: *parentID, Valid: true}
		}

		affected, err := qtx.UpdateMenuItemHierarchy(ctx, store.UpdateMenuItemHierarchyParams{
			ID:        n.ID,
			ParentID:  parent,
			Position:  int64(i),
			Location:  location,
			UpdatedAt: now,
		})
		if err != nil {
			return fmt.Errorf("updating menu item %d: %w", n.ID, err)
		}
		if affected == 0 {
			return fmt.Errorf("menu item %d not found", n.ID)
		}

		id := n.ID
		if err := applyLevel(ctx, qtx, n.Children, &id, location, now); err != nil {
			return err
		}
	}
	return nil
}

// DeleteSubtree deletes a menu item and all its descendants, children first,
// in a single transaction. Deleting an id that no longer exists is a no-op
// for that node, but rows still claiming it as parent are cleaned up anyway,
// so leftovers from a prior partial failure cannot leak.
func (s *MenuService) DeleteSubtree(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &TransactionError{Err: fmt.Errorf("beginning transaction: %w", err)}
	}
	defer func() { _ = tx.Rollback() }()

	qtx := s.queries.WithTx(tx)
	visited := make(map[int64]bool)
	if err := deleteSubtree(ctx, qtx, id, visited); err != nil {
		return &TransactionError{Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &TransactionError{Err: fmt.Errorf("committing transaction: %w", err)}
	}

	s.InvalidateCache(ctx, "")
	slog.Info("menu subtree deleted", "id", id, "nodes", len(visited))
	return nil
}

func deleteSubtree(ctx context.Context, qtx *store.Queries, id int64, visited map[int64]bool) error {
	if visited[id] {
		return nil
	}
	visited[id] = true

	children, err := qtx.ListMenuItemIDsByParent(ctx, id)
	if err != nil {
		return fmt.Errorf("listing children of %d: %w", id, err)
	}
	for _, childID := range children {
		if err := deleteSubtree(ctx, qtx, childID, visited); err != nil {
			return err
		}
	}

	if err := qtx.DeleteMenuItem(ctx, id); err != nil {
		return fmt.Errorf("deleting menu item %d: %w", id, err)
	}
	return nil
}
