// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"

	"github.com/olegiv/omenu-go/internal/model"
	"github.com/olegiv/omenu-go/internal/service"
)

// testDB creates an in-memory SQLite database with menu tables for testing.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	// One connection so every statement sees the same in-memory database.
	db.SetMaxOpenConns(1)

	schema := `
		CREATE TABLE menu_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			url TEXT,
			location TEXT NOT NULL DEFAULT 'none',
			parent_id INTEGER,
			page_id INTEGER,
			position INTEGER NOT NULL DEFAULT 0,
			icon TEXT,
			open_in_new_tab BOOLEAN NOT NULL DEFAULT 0,
			is_active BOOLEAN NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (parent_id) REFERENCES menu_items(id) ON DELETE SET NULL
		);
		CREATE INDEX idx_menu_items_location ON menu_items(location);
		CREATE INDEX idx_menu_items_parent_id ON menu_items(parent_id);

		CREATE TABLE custom_contents (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			section TEXT NOT NULL UNIQUE,
			html TEXT NOT NULL DEFAULT '',
			css TEXT NOT NULL DEFAULT '',
			js TEXT NOT NULL DEFAULT '',
			menu_type TEXT NOT NULL DEFAULT 'manual',
			active_menu_id TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			level TEXT NOT NULL,
			category TEXT NOT NULL,
			message TEXT NOT NULL,
			metadata TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`

	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

// testSetup creates a test database and API handler for testing.
func testSetup(t *testing.T) (*sql.DB, *Handler) {
	t.Helper()
	db := testDB(t)
	menus := service.NewMenuService(db, nil)
	return db, NewHandler(db, menus)
}

// createTestMenuItem creates a test menu item in the database.
func createTestMenuItem(t *testing.T, db *sql.DB, title, location string, parentID *int64, position int64) model.MenuItem {
	t.Helper()
	now := time.Now()

	var result sql.Result
	var err error

	if parentID != nil {
		result, err = db.Exec(
			`INSERT INTO menu_items (title, url, location, parent_id, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			title, "/"+title, location, *parentID, position, now, now,
		)
	} else {
		result, err = db.Exec(
			`INSERT INTO menu_items (title, url, location, position, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
			title, "/"+title, location, position, now, now,
		)
	}
	if err != nil {
		t.Fatalf("failed to create test menu item: %v", err)
	}

	id, _ := result.LastInsertId()
	item := model.MenuItem{
		ID:        id,
		Title:     title,
		URL:       sql.NullString{String: "/" + title, Valid: true},
		Location:  location,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if parentID != nil {
		item.ParentID = sql.NullInt64{Int64: *parentID, Valid: true}
	}
	return item
}

// createTestCustomContent creates a test custom content row in the database.
func createTestCustomContent(t *testing.T, db *sql.DB, section, html string) {
	t.Helper()
	now := time.Now()

	_, err := db.Exec(
		`INSERT INTO custom_contents (section, html, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		section, html, now, now,
	)
	if err != nil {
		t.Fatalf("failed to create test custom content: %v", err)
	}
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newJSONRequest creates an HTTP request with JSON body and optional URL params.
func newJSONRequest(t *testing.T, method, path string, body string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// newGetRequest creates a GET request with optional URL params.
func newGetRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}

// newDeleteRequest creates a DELETE request with optional URL params.
func newDeleteRequest(t *testing.T, path string, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodDelete, path, nil)
	if len(params) > 0 {
		req = requestWithURLParams(req, params)
	}
	return req
}
