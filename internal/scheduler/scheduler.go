// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package scheduler runs periodic maintenance jobs: event log pruning and
// menu cache warming.
package scheduler

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/olegiv/omenu-go/internal/model"
	"github.com/olegiv/omenu-go/internal/service"
	"github.com/olegiv/omenu-go/internal/store"
)

// Job schedules
const (
	pruneEventsSchedule = "0 3 * * *"  // daily at 03:00
	warmMenusSchedule   = "@every 30m" // keep per-location caches hot
)

// Scheduler owns the cron instance and the job implementations.
type Scheduler struct {
	cron    *cron.Cron
	queries *store.Queries
	menus   *service.MenuService
	logger  *slog.Logger

	eventRetention time.Duration
}

// New creates a scheduler. eventRetentionDays controls how long event log
// entries are kept.
func New(db *sql.DB, menus *service.MenuService, logger *slog.Logger, eventRetentionDays int) *Scheduler {
	return &Scheduler{
		cron:           cron.New(),
		queries:        store.New(db),
		menus:          menus,
		logger:         logger,
		eventRetention: time.Duration(eventRetentionDays) * 24 * time.Hour,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(pruneEventsSchedule, s.pruneEvents); err != nil {
		return fmt.Errorf("registering prune job: %w", err)
	}
	if _, err := s.cron.AddFunc(warmMenusSchedule, s.warmMenus); err != nil {
		return fmt.Errorf("registering warm job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		"prune_schedule", pruneEventsSchedule,
		"warm_schedule", warmMenusSchedule)
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// pruneEvents deletes event log entries older than the retention window.
func (s *Scheduler) pruneEvents() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-s.eventRetention)
	deleted, err := s.queries.DeleteEventsBefore(ctx, cutoff)
	if err != nil {
		s.logger.Error("failed to prune events", "error", err)
		return
	}
	if deleted > 0 {
		s.logger.Info("pruned events", "deleted", deleted, "cutoff", cutoff)
	}
}

// warmMenus refreshes the per-location menu caches so public reads stay
// cheap after an invalidation.
func (s *Scheduler) warmMenus() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, location := range model.ValidLocations {
		if _, err := s.menus.LocationView(ctx, location); err != nil {
			s.logger.Warn("failed to warm menu cache", "location", location, "error", err)
		}
	}
}
