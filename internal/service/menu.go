// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service provides the menu-tree business logic: tree building,
// hierarchy mutation, recursive deletion and active-set resolution.
package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"

	"github.com/olegiv/omenu-go/internal/cache"
	"github.com/olegiv/omenu-go/internal/model"
	"github.com/olegiv/omenu-go/internal/store"
)

// TreeNode is a menu item with nested children, as exchanged with the
// admin UI and public renderers.
type TreeNode struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	URL          string     `json:"url,omitempty"`
	Location     string     `json:"location"`
	ParentID     *int64     `json:"parentId"`
	PageID       *int64     `json:"pageId,omitempty"`
	Order        int64      `json:"order"`
	Icon         string     `json:"icon,omitempty"`
	OpenInNewTab bool       `json:"openInNewTab"`
	IsActive     bool       `json:"isActive"`
	Children     []TreeNode `json:"children"`
}

// MenuService provides menu loading with tree building and the recursive
// mutation operations. A nil MenuCache disables caching.
type MenuService struct {
	db        *sql.DB
	queries   *store.Queries
	menuCache *cache.MenuCache

	// Hierarchy writes for the same location are serialized in-process.
	// SQLite is single-writer anyway; this keeps interleaved pre-order
	// walks from clobbering each other at the application level.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMenuService creates a new MenuService.
func NewMenuService(db *sql.DB, menuCache *cache.MenuCache) *MenuService {
	return &MenuService{
		db:        db,
		queries:   store.New(db),
		menuCache: menuCache,
		locks:     make(map[string]*sync.Mutex),
	}
}

// locationLock returns the mutex guarding hierarchy writes for a location.
func (s *MenuService) locationLock(location string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[location]
	if !ok {
		l = &sync.Mutex{}
		s.locks[location] = l
	}
	return l
}

// InvalidateCache clears the cached items for a location, or all locations
// when location is empty.
func (s *MenuService) InvalidateCache(ctx context.Context, location string) {
	if s.menuCache == nil {
		return
	}
	if location == "" {
		s.menuCache.Invalidate(ctx)
	} else {
		s.menuCache.InvalidateLocation(ctx, location)
	}
}

// BuildTree converts a flat, position-sorted list of menu items into a
// nested tree. Nodes are kept in an id-indexed arena and linked by id, so
// any dangling parent reference simply promotes the item to a root instead
// of dropping it, and a corrupt cyclic row set is broken at one member and
// kept visible rather than hanging the walk or shrinking the menu.
func BuildTree(items []model.MenuItem) []TreeNode {
	nodes := make(map[int64]*TreeNode, len(items))
	childIDs := make(map[int64][]int64, len(items))
	var rootIDs []int64

	for _, item := range items {
		n := &TreeNode{
			ID:           item.ID,
			Title:        item.Title,
			Location:     item.Location,
			Order:        item.Position,
			OpenInNewTab: item.OpenInNewTab,
			IsActive:     item.IsActive,
			Children:     []TreeNode{},
		}
		if item.URL.Valid {
			n.URL = item.URL.String
		}
		if item.Icon.Valid {
			n.Icon = item.Icon.String
		}
		if item.PageID.Valid {
			pageID := item.PageID.Int64
			n.PageID = &pageID
		}
		if item.ParentID.Valid {
			parentID := item.ParentID.Int64
			n.ParentID = &parentID
		}
		nodes[item.ID] = n
	}

	// Input order is position order, so appending here preserves sibling rank.
	for _, item := range items {
		if item.ParentID.Valid {
			if _, ok := nodes[item.ParentID.Int64]; ok {
				childIDs[item.ParentID.Int64] = append(childIDs[item.ParentID.Int64], item.ID)
				continue
			}
			slog.Warn("menu item has dangling parent reference, treating as root",
				"id", item.ID, "parent_id", item.ParentID.Int64)
		}
		rootIDs = append(rootIDs, item.ID)
	}

	visited := make(map[int64]bool, len(items))
	var materialize func(id int64) TreeNode
	materialize = func(id int64) TreeNode {
		visited[id] = true
		n := *nodes[id]
		n.Children = make([]TreeNode, 0, len(childIDs[id]))
		for _, childID := range childIDs[id] {
			if visited[childID] {
				continue
			}
			n.Children = append(n.Children, materialize(childID))
		}
		return n
	}

	tree := make([]TreeNode, 0, len(rootIDs))
	for _, id := range rootIDs {
		if visited[id] {
			continue
		}
		tree = append(tree, materialize(id))
	}

	// Members of a parent cycle never reach rootIDs: every member's parent
	// is "known", so none of them was promoted. Break each cycle at its
	// first unvisited member and keep it as a root.
	for _, item := range items {
		if visited[item.ID] {
			continue
		}
		slog.Warn("menu item is part of a parent cycle, treating as root",
			"id", item.ID, "parent_id", item.ParentID.Int64)
		tree = append(tree, materialize(item.ID))
	}
	return tree
}

// loadLocationItems returns the position-sorted items for a location,
// consulting the cache first.
func (s *MenuService) loadLocationItems(ctx context.Context, location string) ([]model.MenuItem, error) {
	if s.menuCache != nil {
		if items, err := s.menuCache.Get(ctx, location); err == nil && items != nil {
			return items, nil
		}
	}

	items, err := s.queries.ListMenuItemsByLocation(ctx, location)
	if err != nil {
		return nil, err
	}

	if s.menuCache != nil {
		if err := s.menuCache.Set(ctx, location, items); err != nil {
			slog.Warn("failed to cache menu items", "location", location, "error", err)
		}
	}
	return items, nil
}

// LocationData is everything a renderer needs for one location.
type LocationData struct {
	Tree          []TreeNode
	CustomContent *model.CustomContent
	ActiveIDs     []string
}

// LocationView assembles the tree, custom content and active id set for a
// location. Store failures on the sub-queries degrade to empty values so a
// partially broken menu configuration never takes down the public site.
func (s *MenuService) LocationView(ctx context.Context, location string) (LocationData, error) {
	if location == "" {
		return LocationData{}, &ValidationError{Message: "location is required"}
	}
	if !model.IsValidLocation(location) {
		return LocationData{}, &ValidationError{Message: "invalid location: " + location}
	}

	data := LocationData{
		Tree:      []TreeNode{},
		ActiveIDs: []string{},
	}

	items, err := s.loadLocationItems(ctx, location)
	if err != nil {
		slog.Warn("failed to load menu items, degrading to empty tree",
			"location", location, "error", err)
		items = nil
	}
	data.Tree = BuildTree(items)

	for _, item := range items {
		if item.IsActive {
			data.ActiveIDs = append(data.ActiveIDs, model.MenuTarget(item.ID).String())
		}
	}

	cc, err := s.queries.GetCustomContentBySection(ctx, location)
	switch {
	case err == nil:
		data.CustomContent = &cc
		if cc.ActiveMenuID.Valid && cc.ActiveMenuID.String == model.CustomSentinel {
			data.ActiveIDs = append(data.ActiveIDs, model.CustomSentinel)
		}
	case errors.Is(err, sql.ErrNoRows):
		// No custom content for this section; nothing to render.
	default:
		slog.Warn("failed to load custom content, degrading to none",
			"section", location, "error", err)
	}

	return data, nil
}
