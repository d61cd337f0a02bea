// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/olegiv/omenu-go/internal/model"
)

const menuItemColumns = `id, title, url, location, parent_id, page_id, position, icon, open_in_new_tab, is_active, created_at, updated_at`

func scanMenuItem(row interface{ Scan(...interface{}) error }) (model.MenuItem, error) {
	var i model.MenuItem
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.URL,
		&i.Location,
		&i.ParentID,
		&i.PageID,
		&i.Position,
		&i.Icon,
		&i.OpenInNewTab,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func collectMenuItems(rows *sql.Rows) ([]model.MenuItem, error) {
	defer func() { _ = rows.Close() }()

	var items []model.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ListMenuItems returns all menu items sorted by location then position.
func (q *Queries) ListMenuItems(ctx context.Context) ([]model.MenuItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items ORDER BY location, position, id`)
	if err != nil {
		return nil, err
	}
	return collectMenuItems(rows)
}

// ListMenuItemsByLocation returns all menu items for one location sorted by position.
func (q *Queries) ListMenuItemsByLocation(ctx context.Context, location string) ([]model.MenuItem, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE location = ? ORDER BY position, id`, location)
	if err != nil {
		return nil, err
	}
	return collectMenuItems(rows)
}

// GetMenuItemByID returns a single menu item.
func (q *Queries) GetMenuItemByID(ctx context.Context, id int64) (model.MenuItem, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+menuItemColumns+` FROM menu_items WHERE id = ?`, id)
	return scanMenuItem(row)
}

// ListMenuItemIDsByParent returns the ids of the immediate children of parentID.
// Rows may still reference a parent that was already deleted; the recursive
// deleter relies on this to clean up after partial failures.
func (q *Queries) ListMenuItemIDsByParent(ctx context.Context, parentID int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id FROM menu_items WHERE parent_id = ? ORDER BY position, id`, parentID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetMaxMenuItemPositionParams holds parameters for GetMaxMenuItemPosition.
type GetMaxMenuItemPositionParams struct {
	Location string
	ParentID sql.NullInt64
}

// GetMaxMenuItemPosition returns the highest position within a
// (location, parent) sibling group, or -1 when the group is empty.
func (q *Queries) GetMaxMenuItemPosition(ctx context.Context, arg GetMaxMenuItemPositionParams) (int64, error) {
	var maxPos sql.NullInt64
	var err error
	if arg.ParentID.Valid {
		err = q.db.QueryRowContext(ctx,
			`SELECT MAX(position) FROM menu_items WHERE location = ? AND parent_id = ?`,
			arg.Location, arg.ParentID.Int64).Scan(&maxPos)
	} else {
		err = q.db.QueryRowContext(ctx,
			`SELECT MAX(position) FROM menu_items WHERE location = ? AND parent_id IS NULL`,
			arg.Location).Scan(&maxPos)
	}
	if err != nil {
		return -1, err
	}
	if !maxPos.Valid {
		return -1, nil
	}
	return maxPos.Int64, nil
}

// CreateMenuItemParams holds parameters for CreateMenuItem.
type CreateMenuItemParams struct {
	Title        string
	URL          sql.NullString
	Location     string
	ParentID     sql.NullInt64
	PageID       sql.NullInt64
	Position     int64
	Icon         sql.NullString
	OpenInNewTab bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateMenuItem inserts a menu item and returns the stored row.
func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (model.MenuItem, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO menu_items (title, url, location, parent_id, page_id, position, icon, open_in_new_tab, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+menuItemColumns,
		arg.Title, arg.URL, arg.Location, arg.ParentID, arg.PageID, arg.Position,
		arg.Icon, arg.OpenInNewTab, arg.IsActive, arg.CreatedAt, arg.UpdatedAt)
	return scanMenuItem(row)
}

// UpdateMenuItemParams holds parameters for UpdateMenuItem.
type UpdateMenuItemParams struct {
	ID           int64
	Title        string
	URL          sql.NullString
	Location     string
	ParentID     sql.NullInt64
	PageID       sql.NullInt64
	Position     int64
	Icon         sql.NullString
	OpenInNewTab bool
	UpdatedAt    time.Time
}

// UpdateMenuItem updates the editable fields of a menu item and returns the
// stored row. is_active is deliberately untouched; it belongs to the
// active-set resolver.
func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (model.MenuItem, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE menu_items
		 SET title = ?, url = ?, location = ?, parent_id = ?, page_id = ?, position = ?, icon = ?, open_in_new_tab = ?, updated_at = ?
		 WHERE id = ?
		 RETURNING `+menuItemColumns,
		arg.Title, arg.URL, arg.Location, arg.ParentID, arg.PageID, arg.Position,
		arg.Icon, arg.OpenInNewTab, arg.UpdatedAt, arg.ID)
	return scanMenuItem(row)
}

// UpdateMenuItemHierarchyParams holds parameters for UpdateMenuItemHierarchy.
type UpdateMenuItemHierarchyParams struct {
	ID        int64
	ParentID  sql.NullInt64
	Position  int64
	Location  string
	UpdatedAt time.Time
}

// UpdateMenuItemHierarchy rewrites the structural fields of one menu item.
// Returns the number of rows affected so callers can detect unknown ids.
func (q *Queries) UpdateMenuItemHierarchy(ctx context.Context, arg UpdateMenuItemHierarchyParams) (int64, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE menu_items SET parent_id = ?, position = ?, location = ?, updated_at = ? WHERE id = ?`,
		arg.ParentID, arg.Position, arg.Location, arg.UpdatedAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteMenuItem deletes a single menu item. Deleting an id that no longer
// exists is not an error.
func (q *Queries) DeleteMenuItem(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM menu_items WHERE id = ?`, id)
	return err
}

// ResetActiveByLocationParams holds parameters for ResetActiveByLocation.
type ResetActiveByLocationParams struct {
	Location  string
	UpdatedAt time.Time
}

// ResetActiveByLocation clears is_active for every menu item in a location.
func (q *Queries) ResetActiveByLocation(ctx context.Context, arg ResetActiveByLocationParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE menu_items SET is_active = 0, updated_at = ? WHERE location = ?`,
		arg.UpdatedAt, arg.Location)
	return err
}

// SetMenuItemsActiveParams holds parameters for SetMenuItemsActive.
type SetMenuItemsActiveParams struct {
	Location  string
	IDs       []int64
	UpdatedAt time.Time
}

// SetMenuItemsActive marks the given menu items active in one bulk update.
// Scoped to the location like ResetActiveByLocation, so a stale id from
// another location never flips a row the reset can't reach.
func (q *Queries) SetMenuItemsActive(ctx context.Context, arg SetMenuItemsActiveParams) error {
	if len(arg.IDs) == 0 {
		return nil
	}

	placeholders := make([]string, len(arg.IDs))
	args := make([]interface{}, 0, len(arg.IDs)+2)
	args = append(args, arg.UpdatedAt, arg.Location)
	for i, id := range arg.IDs {
		placeholders[i] = "?"
		args = append(args, id)
	}

	_, err := q.db.ExecContext(ctx,
		`UPDATE menu_items SET is_active = 1, updated_at = ? WHERE location = ? AND id IN (`+strings.Join(placeholders, ",")+`)`,
		args...)
	return err
}

// ListActiveMenuItemIDs returns the ids of all active menu items in a location.
func (q *Queries) ListActiveMenuItemIDs(ctx context.Context, location string) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx,
		`SELECT id FROM menu_items WHERE location = ? AND is_active = 1 ORDER BY position, id`, location)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
