// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/omenu-go/internal/model"
	"github.com/olegiv/omenu-go/internal/service"
)

// CustomContentResponse represents a custom content block in API responses.
type CustomContentResponse struct {
	ID           int64     `json:"id"`
	Section      string    `json:"section"`
	HTML         string    `json:"html"`
	CSS          string    `json:"css"`
	JS           string    `json:"js"`
	MenuType     string    `json:"menuType"`
	ActiveMenuID string    `json:"activeMenuId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func customContentToResponse(cc model.CustomContent) CustomContentResponse {
	resp := CustomContentResponse{
		ID:        cc.ID,
		Section:   cc.Section,
		HTML:      cc.HTML,
		CSS:       cc.CSS,
		JS:        cc.JS,
		MenuType:  cc.MenuType,
		CreatedAt: cc.CreatedAt,
		UpdatedAt: cc.UpdatedAt,
	}
	if cc.ActiveMenuID.Valid {
		resp.ActiveMenuID = cc.ActiveMenuID.String
	}
	return resp
}

// UpsertCustomContentRequest represents the body for saving custom content.
// Absent fields keep their stored values.
type UpsertCustomContentRequest struct {
	Section  string  `json:"section"`
	HTML     *string `json:"html"`
	CSS      *string `json:"css"`
	JS       *string `json:"js"`
	MenuType *string `json:"menuType"`
}

// UpsertCustomContent handles POST /menus/custom-content - creates or
// patches the custom content block for a section.
func (h *Handler) UpsertCustomContent(w http.ResponseWriter, r *http.Request) {
	var req UpsertCustomContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	if req.MenuType != nil && *req.MenuType != model.MenuTypeManual && *req.MenuType != model.MenuTypeCustom {
		WriteBadRequest(w, "Invalid menuType: "+*req.MenuType)
		return
	}

	cc, err := h.menus.UpsertCustomContent(r.Context(), req.Section, service.CustomContentPatch{
		HTML:     req.HTML,
		CSS:      req.CSS,
		JS:       req.JS,
		MenuType: req.MenuType,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Custom content saved successfully",
		"content": customContentToResponse(cc),
	})
}

// GetCustomContent handles GET /menus/custom-content?section= - returns the
// stored custom content block for a section.
func (h *Handler) GetCustomContent(w http.ResponseWriter, r *http.Request) {
	section := r.URL.Query().Get("section")

	cc, err := h.menus.GetCustomContent(r.Context(), section)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"content": customContentToResponse(cc),
	})
}

// DeleteCustomContent handles DELETE /menus/custom-content/{section} -
// removes the section's block, which also revokes any "custom" activation.
func (h *Handler) DeleteCustomContent(w http.ResponseWriter, r *http.Request) {
	section := chi.URLParam(r, "section")

	if err := h.menus.DeleteCustomContent(r.Context(), section); err != nil {
		writeServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Custom content deleted successfully"})
}
