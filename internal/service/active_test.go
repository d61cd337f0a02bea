// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/olegiv/omenu-go/internal/model"
	"github.com/olegiv/omenu-go/internal/store"
	"github.com/olegiv/omenu-go/internal/testutil"
)

// navbarFixture: 1 (root), 2 (root), 3 (child of 2).
func navbarFixture() []model.MenuItem {
	return []model.MenuItem{
		{ID: 1, Title: "Home", Location: "navbar", Position: 0},
		{ID: 2, Title: "About", Location: "navbar", Position: 1},
		{ID: 3, Title: "Team", ParentID: childOf(2), Location: "navbar", Position: 0},
	}
}

func assertSet(t *testing.T, got ActiveSet, want ...model.ActiveTarget) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d targets, got %v", len(want), got.Strings())
	}
	for _, w := range want {
		if !got.Has(w) {
			t.Errorf("expected %s in set, got %v", w, got.Strings())
		}
	}
}

func TestToggleActiveActivatesSubtree(t *testing.T) {
	items := navbarFixture()

	// Toggling an inactive parent activates it together with its subtree.
	next := ToggleActive(items, model.MenuTarget(2), NewActiveSet())
	assertSet(t, next, model.MenuTarget(2), model.MenuTarget(3))
}

func TestToggleActiveDeactivatesSubtree(t *testing.T) {
	items := navbarFixture()

	current := NewActiveSet(model.MenuTarget(1), model.MenuTarget(2), model.MenuTarget(3))
	next := ToggleActive(items, model.MenuTarget(2), current)
	assertSet(t, next, model.MenuTarget(1))
}

func TestToggleActivePartialSubtreeActivates(t *testing.T) {
	items := navbarFixture()

	// Only the parent is active: the subtree is not fully active, so the
	// click completes the activation instead of clearing it.
	current := NewActiveSet(model.MenuTarget(2))
	next := ToggleActive(items, model.MenuTarget(2), current)
	assertSet(t, next, model.MenuTarget(2), model.MenuTarget(3))
}

func TestToggleActiveLeaf(t *testing.T) {
	items := navbarFixture()

	next := ToggleActive(items, model.MenuTarget(3), NewActiveSet())
	assertSet(t, next, model.MenuTarget(3))

	next = ToggleActive(items, model.MenuTarget(3), next)
	assertSet(t, next)
}

func TestToggleActiveCustom(t *testing.T) {
	items := navbarFixture()

	next := ToggleActive(items, model.CustomTarget(), NewActiveSet())
	assertSet(t, next, model.CustomTarget())

	next = ToggleActive(items, model.CustomTarget(), next)
	assertSet(t, next)
}

func TestToggleActiveUnknownTarget(t *testing.T) {
	items := navbarFixture()

	current := NewActiveSet(model.MenuTarget(1))
	next := ToggleActive(items, model.MenuTarget(99), current)
	assertSet(t, next, model.MenuTarget(1))
}

func TestToggleActiveDoesNotMutateInput(t *testing.T) {
	items := navbarFixture()

	current := NewActiveSet(model.MenuTarget(1))
	_ = ToggleActive(items, model.MenuTarget(2), current)
	assertSet(t, current, model.MenuTarget(1))
}

func TestParseActiveSet(t *testing.T) {
	set := ParseActiveSet([]string{"2", "custom", "7", "bogus", ""})
	assertSet(t, set, model.MenuTarget(2), model.MenuTarget(7), model.CustomTarget())
}

func TestActiveSetStrings(t *testing.T) {
	set := NewActiveSet(model.MenuTarget(7), model.CustomTarget(), model.MenuTarget(2))
	got := set.Strings()

	want := []string{"2", "7", "custom"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestCommitActive(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)
	svc := NewMenuService(db, nil)

	home := createItem(t, q, "home", model.LocationNavbar, sql.NullInt64{}, 0)
	about := createItem(t, q, "about", model.LocationNavbar, sql.NullInt64{}, 1)

	if err := svc.CommitActive(ctx, model.LocationNavbar, NewActiveSet(model.MenuTarget(home.ID))); err != nil {
		t.Fatalf("CommitActive: %v", err)
	}

	ids, err := q.ListActiveMenuItemIDs(ctx, model.LocationNavbar)
	if err != nil {
		t.Fatalf("ListActiveMenuItemIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != home.ID {
		t.Fatalf("expected active ids [%d], got %v", home.ID, ids)
	}

	// A second commit replaces the set rather than accumulating.
	if err := svc.CommitActive(ctx, model.LocationNavbar, NewActiveSet(model.MenuTarget(about.ID))); err != nil {
		t.Fatalf("CommitActive: %v", err)
	}

	ids, err = q.ListActiveMenuItemIDs(ctx, model.LocationNavbar)
	if err != nil {
		t.Fatalf("ListActiveMenuItemIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != about.ID {
		t.Fatalf("expected active ids [%d], got %v", about.ID, ids)
	}
}

func TestCommitActiveIgnoresForeignLocationIDs(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)
	svc := NewMenuService(db, nil)

	home := createItem(t, q, "home", model.LocationNavbar, sql.NullInt64{}, 0)
	privacy := createItem(t, q, "privacy", model.LocationFooter, sql.NullInt64{}, 0)

	// A stale client may submit an id that has since moved to another
	// location. The commit only touches rows in its own location.
	set := NewActiveSet(model.MenuTarget(home.ID), model.MenuTarget(privacy.ID))
	if err := svc.CommitActive(ctx, model.LocationNavbar, set); err != nil {
		t.Fatalf("CommitActive: %v", err)
	}

	ids, err := q.ListActiveMenuItemIDs(ctx, model.LocationNavbar)
	if err != nil {
		t.Fatalf("ListActiveMenuItemIDs: %v", err)
	}
	if len(ids) != 1 || ids[0] != home.ID {
		t.Fatalf("expected active ids [%d], got %v", home.ID, ids)
	}

	ids, err = q.ListActiveMenuItemIDs(ctx, model.LocationFooter)
	if err != nil {
		t.Fatalf("ListActiveMenuItemIDs: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no active footer ids, got %v", ids)
	}
}

func TestCommitActiveEmptyHTMLGuard(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)
	svc := NewMenuService(db, nil)

	// Custom content exists but its HTML body is empty: the sentinel must
	// be silently dropped, not persisted.
	empty := ""
	if _, err := svc.UpsertCustomContent(ctx, model.LocationNavbar, CustomContentPatch{HTML: &empty}); err != nil {
		t.Fatalf("UpsertCustomContent: %v", err)
	}

	if err := svc.CommitActive(ctx, model.LocationNavbar, NewActiveSet(model.CustomTarget())); err != nil {
		t.Fatalf("CommitActive: %v", err)
	}

	cc, err := q.GetCustomContentBySection(ctx, model.LocationNavbar)
	if err != nil {
		t.Fatalf("GetCustomContentBySection: %v", err)
	}
	if cc.ActiveMenuID.Valid {
		t.Errorf("expected no active sentinel on empty-HTML content, got %q", cc.ActiveMenuID.String)
	}
}

func TestCommitActiveCustomSentinel(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	q := store.New(db)
	svc := NewMenuService(db, nil)

	html := "<nav>hand-rolled</nav>"
	if _, err := svc.UpsertCustomContent(ctx, model.LocationNavbar, CustomContentPatch{HTML: &html}); err != nil {
		t.Fatalf("UpsertCustomContent: %v", err)
	}

	if err := svc.CommitActive(ctx, model.LocationNavbar, NewActiveSet(model.CustomTarget())); err != nil {
		t.Fatalf("CommitActive: %v", err)
	}

	cc, err := q.GetCustomContentBySection(ctx, model.LocationNavbar)
	if err != nil {
		t.Fatalf("GetCustomContentBySection: %v", err)
	}
	if !cc.ActiveMenuID.Valid || cc.ActiveMenuID.String != model.CustomSentinel {
		t.Errorf("expected sentinel persisted, got %v", cc.ActiveMenuID)
	}

	// Committing a set without the sentinel clears it again.
	if err := svc.CommitActive(ctx, model.LocationNavbar, NewActiveSet()); err != nil {
		t.Fatalf("CommitActive: %v", err)
	}
	cc, err = q.GetCustomContentBySection(ctx, model.LocationNavbar)
	if err != nil {
		t.Fatalf("GetCustomContentBySection: %v", err)
	}
	if cc.ActiveMenuID.Valid {
		t.Errorf("expected sentinel cleared, got %q", cc.ActiveMenuID.String)
	}
}

func TestCommitActiveMissingCustomContent(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	ctx := context.Background()
	svc := NewMenuService(db, nil)

	// No custom_contents row at all: the sentinel is ineligible but the
	// commit itself still succeeds.
	if err := svc.CommitActive(ctx, model.LocationFooter, NewActiveSet(model.CustomTarget())); err != nil {
		t.Fatalf("CommitActive: %v", err)
	}
}

func TestCommitActiveInvalidSection(t *testing.T) {
	db, cleanup := testutil.TestDB(t)
	defer cleanup()

	svc := NewMenuService(db, nil)

	for _, section := range []string{"", "sidebar"} {
		err := svc.CommitActive(context.Background(), section, NewActiveSet())
		var validationErr *ValidationError
		if !errors.As(err, &validationErr) {
			t.Errorf("CommitActive(%q): expected validation error, got %v", section, err)
		}
	}
}
