// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/omenu-go/internal/model"
	"github.com/olegiv/omenu-go/internal/service"
	"github.com/olegiv/omenu-go/internal/store"

	"github.com/go-chi/chi/v5"
)

// MenuItemResponse represents a menu item in API responses.
type MenuItemResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	URL          string    `json:"url,omitempty"`
	Location     string    `json:"location"`
	ParentID     *int64    `json:"parentId"`
	PageID       *int64    `json:"pageId,omitempty"`
	Order        int64     `json:"order"`
	Icon         string    `json:"icon,omitempty"`
	OpenInNewTab bool      `json:"openInNewTab"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func menuItemToResponse(item model.MenuItem) MenuItemResponse {
	resp := MenuItemResponse{
		ID:           item.ID,
		Title:        item.Title,
		Location:     item.Location,
		Order:        item.Position,
		OpenInNewTab: item.OpenInNewTab,
		IsActive:     item.IsActive,
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
	if item.URL.Valid {
		resp.URL = item.URL.String
	}
	if item.Icon.Valid {
		resp.Icon = item.Icon.String
	}
	if item.ParentID.Valid {
		parentID := item.ParentID.Int64
		resp.ParentID = &parentID
	}
	if item.PageID.Valid {
		pageID := item.PageID.Int64
		resp.PageID = &pageID
	}
	return resp
}

// ListMenus handles GET /menus - returns all menu items as a flat list
// sorted by location and order.
func (h *Handler) ListMenus(w http.ResponseWriter, r *http.Request) {
	items, err := h.queries.ListMenuItems(r.Context())
	if err != nil {
		slog.Error("failed to list menu items", "error", err)
		WriteInternalError(w, "Failed to list menus")
		return
	}

	responses := make([]MenuItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, menuItemToResponse(item))
	}
	WriteJSON(w, http.StatusOK, responses)
}

// LocationTreeResponse is the payload for GET /menus/location/{location}.
type LocationTreeResponse struct {
	Menus         []service.TreeNode     `json:"menus"`
	CustomContent *CustomContentResponse `json:"customContent"`
	ActiveMenuIDs []string               `json:"activeMenuIds"`
}

// LocationTree handles GET /menus/location/{location} - returns the nested
// tree, custom content and active id set for one location.
func (h *Handler) LocationTree(w http.ResponseWriter, r *http.Request) {
	location := chi.URLParam(r, "location")

	data, err := h.menus.LocationView(r.Context(), location)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := LocationTreeResponse{
		Menus:         data.Tree,
		ActiveMenuIDs: data.ActiveIDs,
	}
	if data.CustomContent != nil {
		cc := customContentToResponse(*data.CustomContent)
		resp.CustomContent = &cc
	}
	WriteJSON(w, http.StatusOK, resp)
}

// CreateMenuRequest represents the request body for creating a menu item.
type CreateMenuRequest struct {
	Title        string `json:"title"`
	URL          string `json:"url"`
	Location     string `json:"location"`
	ParentID     *int64 `json:"parentId"`
	PageID       *int64 `json:"pageId"`
	Icon         string `json:"icon"`
	OpenInNewTab bool   `json:"openInNewTab"`
}

// CreateMenu handles POST /menus - creates a menu item, appended after the
// last sibling in its (location, parent) group.
func (h *Handler) CreateMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	if req.Title == "" {
		WriteBadRequest(w, "Title is required")
		return
	}
	if req.Location == "" {
		req.Location = model.LocationNone
	}
	if !model.IsValidLocation(req.Location) {
		WriteBadRequest(w, "Invalid location: "+req.Location)
		return
	}

	var parentID sql.NullInt64
	if req.ParentID != nil {
		parent, err := h.queries.GetMenuItemByID(ctx, *req.ParentID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				WriteBadRequest(w, "Parent menu item not found")
			} else {
				slog.Error("failed to get parent menu item", "error", err, "parent_id", *req.ParentID)
				WriteInternalError(w, "Failed to validate parent")
			}
			return
		}
		// Items in different locations never nest into each other.
		if parent.Location != req.Location {
			WriteBadRequest(w, "Parent menu item belongs to a different location")
			return
		}
		parentID = sql.NullInt64{Int64: *req.ParentID, Valid: true}
	}

	maxPos, err := h.queries.GetMaxMenuItemPosition(ctx, store.GetMaxMenuItemPositionParams{
		Location: req.Location,
		ParentID: parentID,
	})
	if err != nil {
		slog.Error("failed to get max position", "error", err)
		WriteInternalError(w, "Failed to create menu item")
		return
	}

	var pageID sql.NullInt64
	if req.PageID != nil {
		pageID = sql.NullInt64{Int64: *req.PageID, Valid: true}
	}

	now := time.Now()
	item, err := h.queries.CreateMenuItem(ctx, store.CreateMenuItemParams{
		Title:        req.Title,
		URL:          sql.NullString{String: req.URL, Valid: req.URL != ""},
		Location:     req.Location,
		ParentID:     parentID,
		PageID:       pageID,
		Position:     maxPos + 1,
		Icon:         sql.NullString{String: req.Icon, Valid: req.Icon != ""},
		OpenInNewTab: req.OpenInNewTab,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		slog.Error("failed to create menu item", "error", err)
		WriteInternalError(w, "Failed to create menu item")
		return
	}

	h.menus.InvalidateCache(ctx, item.Location)
	slog.Info("menu item created", "id", item.ID, "location", item.Location)
	WriteJSON(w, http.StatusCreated, menuItemToResponse(item))
}

// UpdateMenuRequest represents the request body for updating a menu item.
// Nil fields keep their stored values. isActive is deliberately absent:
// it is only flipped through the set-active operation.
type UpdateMenuRequest struct {
	Title        *string `json:"title"`
	URL          *string `json:"url"`
	Location     *string `json:"location"`
	PageID       *int64  `json:"pageId"`
	Icon         *string `json:"icon"`
	OpenInNewTab *bool   `json:"openInNewTab"`
}

// UpdateMenu handles PUT /menus/{id} - updates the editable fields of a
// menu item. Structural fields (parent, order) change only through the
// hierarchy operation.
func (h *Handler) UpdateMenu(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid menu ID")
		return
	}

	item, err := h.queries.GetMenuItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			WriteNotFound(w, "Menu item not found")
		} else {
			slog.Error("failed to get menu item", "error", err, "id", id)
			WriteInternalError(w, "Failed to retrieve menu item")
		}
		return
	}

	var req UpdateMenuRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	params := store.UpdateMenuItemParams{
		ID:           item.ID,
		Title:        item.Title,
		URL:          item.URL,
		Location:     item.Location,
		ParentID:     item.ParentID,
		PageID:       item.PageID,
		Position:     item.Position,
		Icon:         item.Icon,
		OpenInNewTab: item.OpenInNewTab,
		UpdatedAt:    time.Now(),
	}

	if req.Title != nil {
		if *req.Title == "" {
			WriteBadRequest(w, "Title is required")
			return
		}
		params.Title = *req.Title
	}
	if req.URL != nil {
		params.URL = sql.NullString{String: *req.URL, Valid: *req.URL != ""}
	}
	if req.Location != nil {
		if !model.IsValidLocation(*req.Location) {
			WriteBadRequest(w, "Invalid location: "+*req.Location)
			return
		}
		params.Location = *req.Location
	}
	if req.PageID != nil {
		if *req.PageID == 0 {
			params.PageID = sql.NullInt64{}
		} else {
			params.PageID = sql.NullInt64{Int64: *req.PageID, Valid: true}
		}
	}
	if req.Icon != nil {
		params.Icon = sql.NullString{String: *req.Icon, Valid: *req.Icon != ""}
	}
	if req.OpenInNewTab != nil {
		params.OpenInNewTab = *req.OpenInNewTab
	}

	updated, err := h.queries.UpdateMenuItem(ctx, params)
	if err != nil {
		slog.Error("failed to update menu item", "error", err, "id", id)
		WriteInternalError(w, "Failed to update menu item")
		return
	}

	h.menus.InvalidateCache(ctx, item.Location)
	if updated.Location != item.Location {
		h.menus.InvalidateCache(ctx, updated.Location)
	}
	WriteJSON(w, http.StatusOK, menuItemToResponse(updated))
}

// DeleteMenu handles DELETE /menus/{id} - deletes a menu item and its
// entire subtree. Deleting an already-absent id still succeeds.
func (h *Handler) DeleteMenu(w http.ResponseWriter, r *http.Request) {
	id, err := ParseIDParam(r)
	if err != nil {
		WriteBadRequest(w, "Invalid menu ID")
		return
	}

	if err := h.menus.DeleteSubtree(r.Context(), id); err != nil {
		slog.Error("failed to delete menu subtree", "error", err, "id", id)
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Menu deleted successfully"})
}

// HierarchyRequest represents the request body for applying a hierarchy.
type HierarchyRequest struct {
	MenuTree []service.TreeNode `json:"menuTree"`
	Location string             `json:"location"`
}

// ApplyHierarchy handles POST /menus/hierarchy - persists a reordered or
// reparented tree for one location in a single transaction.
func (h *Handler) ApplyHierarchy(w http.ResponseWriter, r *http.Request) {
	var req HierarchyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}
	if req.MenuTree == nil {
		WriteBadRequest(w, "menuTree is required")
		return
	}

	if err := h.menus.ApplyHierarchy(r.Context(), req.MenuTree, req.Location); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Menu hierarchy updated successfully"})
}

// SetActiveRequest represents the request body for setting active menus.
type SetActiveRequest struct {
	MenuIDs []string `json:"menuIds"`
	Section string   `json:"section"`
}

// SetActiveResponse is the payload for POST /menus/set-active.
type SetActiveResponse struct {
	Message       string   `json:"message"`
	ActiveMenuIDs []string `json:"activeMenuIds"`
}

// SetActive handles POST /menus/set-active - commits the active id set for
// a section and returns the persisted result.
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	set := service.ParseActiveSet(req.MenuIDs)
	if err := h.menus.CommitActive(ctx, req.Section, set); err != nil {
		writeServiceError(w, err)
		return
	}

	// Report the stored state rather than echoing the request: the custom
	// sentinel may have been rejected by the empty-HTML guard.
	activeIDs := []string{}
	ids, err := h.queries.ListActiveMenuItemIDs(ctx, req.Section)
	if err != nil {
		slog.Error("failed to list active menu items", "error", err, "section", req.Section)
	}
	for _, id := range ids {
		activeIDs = append(activeIDs, model.MenuTarget(id).String())
	}
	cc, err := h.queries.GetCustomContentBySection(ctx, req.Section)
	if err == nil && cc.ActiveMenuID.Valid && cc.ActiveMenuID.String == model.CustomSentinel {
		activeIDs = append(activeIDs, model.CustomSentinel)
	}

	WriteJSON(w, http.StatusOK, SetActiveResponse{
		Message:       "Active menus updated successfully",
		ActiveMenuIDs: activeIDs,
	})
}
