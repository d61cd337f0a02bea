// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/olegiv/omenu-go/internal/model"
	"github.com/olegiv/omenu-go/internal/store"
)

// CustomContentPatch carries the fields of an upsert request. Nil fields
// keep their prior value; on create, missing fields get safe defaults.
type CustomContentPatch struct {
	HTML     *string
	CSS      *string
	JS       *string
	MenuType *string
}

// GetCustomContent returns the custom content row for a section.
func (s *MenuService) GetCustomContent(ctx context.Context, section string) (model.CustomContent, error) {
	if section == "" {
		return model.CustomContent{}, &ValidationError{Message: "section is required"}
	}

	cc, err := s.queries.GetCustomContentBySection(ctx, section)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.CustomContent{}, &NotFoundError{Resource: "custom content", Key: section}
		}
		return model.CustomContent{}, fmt.Errorf("loading custom content: %w", err)
	}
	return cc, nil
}

// UpsertCustomContent patches the section's row, creating it when absent.
// Only supplied fields change; the rest keep their stored values.
func (s *MenuService) UpsertCustomContent(ctx context.Context, section string, patch CustomContentPatch) (model.CustomContent, error) {
	if section == "" {
		return model.CustomContent{}, &ValidationError{Message: "section is required"}
	}
	if !model.IsValidLocation(section) {
		return model.CustomContent{}, &ValidationError{Message: "invalid section: " + section}
	}

	now := time.Now()

	existing, err := s.queries.GetCustomContentBySection(ctx, section)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return model.CustomContent{}, fmt.Errorf("loading custom content: %w", err)
		}

		params := store.CreateCustomContentParams{
			Section:   section,
			MenuType:  model.MenuTypeManual,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if patch.HTML != nil {
			params.HTML = *patch.HTML
		}
		if patch.CSS != nil {
			params.CSS = *patch.CSS
		}
		if patch.JS != nil {
			params.JS = *patch.JS
		}
		if patch.MenuType != nil {
			params.MenuType = *patch.MenuType
		}

		created, err := s.queries.CreateCustomContent(ctx, params)
		if err != nil {
			return model.CustomContent{}, fmt.Errorf("creating custom content: %w", err)
		}
		s.InvalidateCache(ctx, section)
		return created, nil
	}

	params := store.UpdateCustomContentParams{
		Section:   section,
		HTML:      existing.HTML,
		CSS:       existing.CSS,
		JS:        existing.JS,
		MenuType:  existing.MenuType,
		UpdatedAt: now,
	}
	if patch.HTML != nil {
		params.HTML = *patch.HTML
	}
	if patch.CSS != nil {
		params.CSS = *patch.CSS
	}
	if patch.JS != nil {
		params.JS = *patch.JS
	}
	if patch.MenuType != nil {
		params.MenuType = *patch.MenuType
	}

	updated, err := s.queries.UpdateCustomContent(ctx, params)
	if err != nil {
		return model.CustomContent{}, fmt.Errorf("updating custom content: %w", err)
	}
	s.InvalidateCache(ctx, section)
	return updated, nil
}

// DeleteCustomContent removes a section's custom content row. The row's
// absence is what invalidates any "custom" activation for the section: with
// no row, CommitActive can never record the sentinel again.
func (s *MenuService) DeleteCustomContent(ctx context.Context, section string) error {
	if section == "" {
		return &ValidationError{Message: "section is required"}
	}

	affected, err := s.queries.DeleteCustomContentBySection(ctx, section)
	if err != nil {
		return fmt.Errorf("deleting custom content: %w", err)
	}
	if affected == 0 {
		return &NotFoundError{Resource: "custom content", Key: section}
	}

	s.InvalidateCache(ctx, section)
	return nil
}
