// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/omenu-go/internal/model"
)

func TestListMenus(t *testing.T) {
	db, h := testSetup(t)

	createTestMenuItem(t, db, "home", model.LocationNavbar, nil, 0)
	createTestMenuItem(t, db, "privacy", model.LocationFooter, nil, 0)

	req := newGetRequest(t, "/api/menus", nil)
	rec := httptest.NewRecorder()
	h.ListMenus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var items []MenuItemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
}

func TestListMenusEmpty(t *testing.T) {
	_, h := testSetup(t)

	req := newGetRequest(t, "/api/menus", nil)
	rec := httptest.NewRecorder()
	h.ListMenus(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	// Empty list serializes as [], not null.
	if got := rec.Body.String(); got != "[]\n" {
		t.Errorf("expected empty JSON array, got %q", got)
	}
}

func TestCreateMenu(t *testing.T) {
	_, h := testSetup(t)

	body := `{"title": "Home", "url": "/", "location": "navbar", "openInNewTab": true}`
	req := newJSONRequest(t, http.MethodPost, "/api/menus", body, nil)
	rec := httptest.NewRecorder()
	h.CreateMenu(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var item MenuItemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if item.Title != "Home" || item.URL != "/" || item.Location != "navbar" {
		t.Errorf("unexpected item: %+v", item)
	}
	if !item.OpenInNewTab {
		t.Error("expected openInNewTab true")
	}
	if item.Order != 0 {
		t.Errorf("expected first item at order 0, got %d", item.Order)
	}
	if item.IsActive {
		t.Error("new items must start inactive")
	}
}

func TestCreateMenuAppendsPosition(t *testing.T) {
	db, h := testSetup(t)

	createTestMenuItem(t, db, "home", model.LocationNavbar, nil, 0)
	createTestMenuItem(t, db, "about", model.LocationNavbar, nil, 1)

	body := `{"title": "Contact", "location": "navbar"}`
	req := newJSONRequest(t, http.MethodPost, "/api/menus", body, nil)
	rec := httptest.NewRecorder()
	h.CreateMenu(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var item MenuItemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if item.Order != 2 {
		t.Errorf("expected item appended at order 2, got %d", item.Order)
	}
}

func TestCreateMenuDefaultsLocation(t *testing.T) {
	_, h := testSetup(t)

	body := `{"title": "Draft"}`
	req := newJSONRequest(t, http.MethodPost, "/api/menus", body, nil)
	rec := httptest.NewRecorder()
	h.CreateMenu(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var item MenuItemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if item.Location != model.LocationNone {
		t.Errorf("expected default location %q, got %q", model.LocationNone, item.Location)
	}
}

func TestCreateMenuValidation(t *testing.T) {
	db, h := testSetup(t)

	footer := createTestMenuItem(t, db, "privacy", model.LocationFooter, nil, 0)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing title", `{"location": "navbar"}`},
		{"invalid location", `{"title": "x", "location": "sidebar"}`},
		{"unknown parent", `{"title": "x", "location": "navbar", "parentId": 9999}`},
		{"cross-location parent", fmt.Sprintf(`{"title": "x", "location": "navbar", "parentId": %d}`, footer.ID)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(t, http.MethodPost, "/api/menus", tt.body, nil)
			rec := httptest.NewRecorder()
			h.CreateMenu(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestLocationTree(t *testing.T) {
	db, h := testSetup(t)

	about := createTestMenuItem(t, db, "about", model.LocationNavbar, nil, 0)
	team := createTestMenuItem(t, db, "team", model.LocationNavbar, &about.ID, 0)
	createTestMenuItem(t, db, "privacy", model.LocationFooter, nil, 0)
	createTestCustomContent(t, db, model.LocationNavbar, "<nav>x</nav>")

	req := newGetRequest(t, "/api/menus/location/navbar", map[string]string{"location": "navbar"})
	rec := httptest.NewRecorder()
	h.LocationTree(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp LocationTreeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Menus) != 1 {
		t.Fatalf("expected 1 navbar root, got %d", len(resp.Menus))
	}
	if len(resp.Menus[0].Children) != 1 || resp.Menus[0].Children[0].ID != team.ID {
		t.Errorf("expected team nested under about, got %+v", resp.Menus[0].Children)
	}
	if resp.CustomContent == nil || resp.CustomContent.HTML != "<nav>x</nav>" {
		t.Errorf("expected custom content in response, got %+v", resp.CustomContent)
	}
	if len(resp.ActiveMenuIDs) != 0 {
		t.Errorf("expected no active ids, got %v", resp.ActiveMenuIDs)
	}
}

func TestLocationTreeInvalidLocation(t *testing.T) {
	_, h := testSetup(t)

	req := newGetRequest(t, "/api/menus/location/sidebar", map[string]string{"location": "sidebar"})
	rec := httptest.NewRecorder()
	h.LocationTree(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestUpdateMenu(t *testing.T) {
	db, h := testSetup(t)

	item := createTestMenuItem(t, db, "home", model.LocationNavbar, nil, 0)

	body := `{"title": "Start", "url": "/start", "openInNewTab": true}`
	req := newJSONRequest(t, http.MethodPut, "/api/menus/1", body,
		map[string]string{"id": fmt.Sprintf("%d", item.ID)})
	rec := httptest.NewRecorder()
	h.UpdateMenu(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated MenuItemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if updated.Title != "Start" || updated.URL != "/start" || !updated.OpenInNewTab {
		t.Errorf("unexpected updated item: %+v", updated)
	}
	// Untouched fields survive.
	if updated.Location != model.LocationNavbar || updated.Order != 0 {
		t.Errorf("expected location/order preserved, got %+v", updated)
	}
}

func TestUpdateMenuIgnoresIsActive(t *testing.T) {
	db, h := testSetup(t)

	item := createTestMenuItem(t, db, "home", model.LocationNavbar, nil, 0)
	if _, err := db.Exec(`UPDATE menu_items SET is_active = 1 WHERE id = ?`, item.ID); err != nil {
		t.Fatalf("marking item active: %v", err)
	}

	// isActive in the body is not an editable field and must be ignored.
	body := `{"title": "Home", "isActive": false}`
	req := newJSONRequest(t, http.MethodPut, "/api/menus/1", body,
		map[string]string{"id": fmt.Sprintf("%d", item.ID)})
	rec := httptest.NewRecorder()
	h.UpdateMenu(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var updated MenuItemResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !updated.IsActive {
		t.Error("expected isActive untouched by update")
	}
}

func TestUpdateMenuNotFound(t *testing.T) {
	_, h := testSetup(t)

	req := newJSONRequest(t, http.MethodPut, "/api/menus/9999", `{"title": "x"}`,
		map[string]string{"id": "9999"})
	rec := httptest.NewRecorder()
	h.UpdateMenu(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
}

func TestUpdateMenuInvalidID(t *testing.T) {
	_, h := testSetup(t)

	req := newJSONRequest(t, http.MethodPut, "/api/menus/abc", `{"title": "x"}`,
		map[string]string{"id": "abc"})
	rec := httptest.NewRecorder()
	h.UpdateMenu(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestDeleteMenuSubtree(t *testing.T) {
	db, h := testSetup(t)

	about := createTestMenuItem(t, db, "about", model.LocationNavbar, nil, 0)
	team := createTestMenuItem(t, db, "team", model.LocationNavbar, &about.ID, 0)
	home := createTestMenuItem(t, db, "home", model.LocationNavbar, nil, 1)

	req := newDeleteRequest(t, "/api/menus/1", map[string]string{"id": fmt.Sprintf("%d", about.ID)})
	rec := httptest.NewRecorder()
	h.DeleteMenu(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	for _, id := range []int64{about.ID, team.ID} {
		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM menu_items WHERE id = ?`, id).Scan(&count); err != nil {
			t.Fatalf("counting: %v", err)
		}
		if count != 0 {
			t.Errorf("expected item %d deleted", id)
		}
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM menu_items WHERE id = ?`, home.ID).Scan(&count); err != nil {
		t.Fatalf("counting: %v", err)
	}
	if count != 1 {
		t.Error("expected sibling home to survive")
	}
}

func TestDeleteMenuIdempotent(t *testing.T) {
	_, h := testSetup(t)

	req := newDeleteRequest(t, "/api/menus/424242", map[string]string{"id": "424242"})
	rec := httptest.NewRecorder()
	h.DeleteMenu(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200 for missing id, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestApplyHierarchy(t *testing.T) {
	db, h := testSetup(t)

	home := createTestMenuItem(t, db, "home", model.LocationNavbar, nil, 0)
	about := createTestMenuItem(t, db, "about", model.LocationNavbar, nil, 1)

	// Nest home under about and make about the sole root.
	body := fmt.Sprintf(`{
		"location": "navbar",
		"menuTree": [
			{"id": %d, "children": [{"id": %d, "children": []}]}
		]
	}`, about.ID, home.ID)

	req := newJSONRequest(t, http.MethodPost, "/api/menus/hierarchy", body, nil)
	rec := httptest.NewRecorder()
	h.ApplyHierarchy(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var parentID sql.NullInt64
	if err := db.QueryRow(`SELECT parent_id FROM menu_items WHERE id = ?`, home.ID).Scan(&parentID); err != nil {
		t.Fatalf("reading home: %v", err)
	}
	if !parentID.Valid || parentID.Int64 != about.ID {
		t.Errorf("expected home reparented under about, got %v", parentID)
	}
}

func TestApplyHierarchyValidation(t *testing.T) {
	_, h := testSetup(t)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"invalid json", `{not json`, http.StatusBadRequest},
		{"missing tree", `{"location": "navbar"}`, http.StatusBadRequest},
		{"invalid location", `{"location": "sidebar", "menuTree": []}`, http.StatusBadRequest},
		{"unknown id", `{"location": "navbar", "menuTree": [{"id": 9999}]}`, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newJSONRequest(t, http.MethodPost, "/api/menus/hierarchy", tt.body, nil)
			rec := httptest.NewRecorder()
			h.ApplyHierarchy(rec, req)

			if rec.Code != tt.want {
				t.Errorf("expected status %d, got %d: %s", tt.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSetActive(t *testing.T) {
	db, h := testSetup(t)

	home := createTestMenuItem(t, db, "home", model.LocationNavbar, nil, 0)
	about := createTestMenuItem(t, db, "about", model.LocationNavbar, nil, 1)

	body := fmt.Sprintf(`{"section": "navbar", "menuIds": ["%d", "%d"]}`, home.ID, about.ID)
	req := newJSONRequest(t, http.MethodPost, "/api/menus/set-active", body, nil)
	rec := httptest.NewRecorder()
	h.SetActive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp SetActiveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	want := []string{fmt.Sprintf("%d", home.ID), fmt.Sprintf("%d", about.ID)}
	if len(resp.ActiveMenuIDs) != len(want) {
		t.Fatalf("expected active ids %v, got %v", want, resp.ActiveMenuIDs)
	}
	for i := range want {
		if resp.ActiveMenuIDs[i] != want[i] {
			t.Errorf("active id %d: expected %s, got %s", i, want[i], resp.ActiveMenuIDs[i])
		}
	}
}

func TestSetActiveEmptyHTMLGuard(t *testing.T) {
	db, h := testSetup(t)

	createTestCustomContent(t, db, model.LocationNavbar, "")

	// The response reflects the stored state: the sentinel was dropped
	// because the custom block has no HTML.
	body := `{"section": "navbar", "menuIds": ["custom"]}`
	req := newJSONRequest(t, http.MethodPost, "/api/menus/set-active", body, nil)
	rec := httptest.NewRecorder()
	h.SetActive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp SetActiveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.ActiveMenuIDs) != 0 {
		t.Errorf("expected sentinel dropped, got %v", resp.ActiveMenuIDs)
	}
}

func TestSetActiveCustomSentinel(t *testing.T) {
	db, h := testSetup(t)

	createTestCustomContent(t, db, model.LocationNavbar, "<nav>x</nav>")

	body := `{"section": "navbar", "menuIds": ["custom"]}`
	req := newJSONRequest(t, http.MethodPost, "/api/menus/set-active", body, nil)
	rec := httptest.NewRecorder()
	h.SetActive(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp SetActiveResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.ActiveMenuIDs) != 1 || resp.ActiveMenuIDs[0] != model.CustomSentinel {
		t.Errorf("expected [custom], got %v", resp.ActiveMenuIDs)
	}
}

func TestSetActiveInvalidSection(t *testing.T) {
	_, h := testSetup(t)

	body := `{"section": "sidebar", "menuIds": []}`
	req := newJSONRequest(t, http.MethodPost, "/api/menus/set-active", body, nil)
	rec := httptest.NewRecorder()
	h.SetActive(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}
