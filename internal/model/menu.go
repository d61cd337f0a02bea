// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the persisted domain types for the menu service.
package model

import (
	"database/sql"
	"strconv"
	"time"
)

// Menu locations
const (
	LocationNavbar = "navbar"
	LocationFooter = "footer"
	LocationNone   = "none"
)

// ValidLocations contains all valid menu location values.
var ValidLocations = []string{LocationNavbar, LocationFooter, LocationNone}

// IsValidLocation checks if a location value is valid.
func IsValidLocation(location string) bool {
	for _, l := range ValidLocations {
		if l == location {
			return true
		}
	}
	return false
}

// MenuItem represents a single navigation menu entry.
// Items form an acyclic forest per location via ParentID.
type MenuItem struct {
	ID           int64
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

// CustomContent holds hand-authored HTML/CSS/JS for one section.
// ActiveMenuID carries the literal value "custom" when the block itself
// is the active render target for the section.
type CustomContent struct {
	ID           int64
	Section      string
	HTML         string
	CSS          string
	JS           string
	MenuType     string
	ActiveMenuID sql.NullString
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Custom content menu types
const (
	MenuTypeManual = "manual"
	MenuTypeCustom = "custom"
)

// CustomSentinel is the wire identifier meaning "render the custom
// HTML/CSS/JS block instead of a menu item".
const CustomSentinel = "custom"

// ActiveTarget identifies a toggleable render target: either a real menu
// item or the custom content block. Keeping the sentinel out of the numeric
// id space avoids type confusion; the wire format ("custom" or a decimal id)
// is restored by String.
type ActiveTarget struct {
	Custom bool
	MenuID int64
}

// MenuTarget returns an ActiveTarget for a menu item id.
func MenuTarget(id int64) ActiveTarget {
	return ActiveTarget{MenuID: id}
}

// CustomTarget returns the ActiveTarget for the custom content block.
func CustomTarget() ActiveTarget {
	return ActiveTarget{Custom: true}
}

// ParseActiveTarget converts a wire identifier into an ActiveTarget.
// Returns false if the value is neither "custom" nor a decimal menu id.
func ParseActiveTarget(s string) (ActiveTarget, bool) {
	if s == CustomSentinel {
		return CustomTarget(), true
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return ActiveTarget{}, false
	}
	return MenuTarget(id), true
}

// String returns the wire form of the target.
func (t ActiveTarget) String() string {
	if t.Custom {
		return CustomSentinel
	}
	return strconv.FormatInt(t.MenuID, 10)
}
