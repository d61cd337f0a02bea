// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/olegiv/omenu-go/internal/model"
)

const customContentColumns = `id, section, html, css, js, menu_type, active_menu_id, created_at, updated_at`

func scanCustomContent(row interface{ Scan(...interface{}) error }) (model.CustomContent, error) {
	var c model.CustomContent
	err := row.Scan(
		&c.ID,
		&c.Section,
		&c.HTML,
		&c.CSS,
		&c.JS,
		&c.MenuType,
		&c.ActiveMenuID,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	return c, err
}

// GetCustomContentBySection returns the custom content row for a section.
func (q *Queries) GetCustomContentBySection(ctx context.Context, section string) (model.CustomContent, error) {
	row := q.db.QueryRowContext(ctx,
		`SELECT `+customContentColumns+` FROM custom_contents WHERE section = ?`, section)
	return scanCustomContent(row)
}

// CreateCustomContentParams holds parameters for CreateCustomContent.
type CreateCustomContentParams struct {
	Section   string
	HTML      string
	CSS       string
	JS        string
	MenuType  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateCustomContent inserts a custom content row and returns the stored row.
func (q *Queries) CreateCustomContent(ctx context.Context, arg CreateCustomContentParams) (model.CustomContent, error) {
	row := q.db.QueryRowContext(ctx,
		`INSERT INTO custom_contents (section, html, css, js, menu_type, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 RETURNING `+customContentColumns,
		arg.Section, arg.HTML, arg.CSS, arg.JS, arg.MenuType, arg.CreatedAt, arg.UpdatedAt)
	return scanCustomContent(row)
}

// UpdateCustomContentParams holds parameters for UpdateCustomContent.
type UpdateCustomContentParams struct {
	Section   string
	HTML      string
	CSS       string
	JS        string
	MenuType  string
	UpdatedAt time.Time
}

// UpdateCustomContent rewrites the content fields of a section's row and
// returns the stored row. active_menu_id is managed separately by
// SetCustomContentActiveMenuID.
func (q *Queries) UpdateCustomContent(ctx context.Context, arg UpdateCustomContentParams) (model.CustomContent, error) {
	row := q.db.QueryRowContext(ctx,
		`UPDATE custom_contents SET html = ?, css = ?, js = ?, menu_type = ?, updated_at = ?
		 WHERE section = ?
		 RETURNING `+customContentColumns,
		arg.HTML, arg.CSS, arg.JS, arg.MenuType, arg.UpdatedAt, arg.Section)
	return scanCustomContent(row)
}

// SetCustomContentActiveMenuIDParams holds parameters for SetCustomContentActiveMenuID.
type SetCustomContentActiveMenuIDParams struct {
	Section      string
	ActiveMenuID sql.NullString
	UpdatedAt    time.Time
}

// SetCustomContentActiveMenuID records or clears the "custom" sentinel on a
// section's row.
func (q *Queries) SetCustomContentActiveMenuID(ctx context.Context, arg SetCustomContentActiveMenuIDParams) error {
	_, err := q.db.ExecContext(ctx,
		`UPDATE custom_contents SET active_menu_id = ?, updated_at = ? WHERE section = ?`,
		arg.ActiveMenuID, arg.UpdatedAt, arg.Section)
	return err
}

// DeleteCustomContentBySection deletes a section's custom content row.
// Returns the number of rows affected so callers can report a missing section.
func (q *Queries) DeleteCustomContentBySection(ctx context.Context, section string) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM custom_contents WHERE section = ?`, section)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
