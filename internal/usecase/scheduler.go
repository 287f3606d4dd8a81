package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"IdeaOasis/internal/ports"
)

// Scheduler runs the discovery pipeline on a daily cadence. On Start it
// checks whether today's run already produced an active idea and catches up
// immediately when it has not, so a process started after the scheduled time
// does not leave the day empty.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	store    ports.IdeaStore
	logger   *slog.Logger
	loc      *time.Location
	now      func() time.Time
}

// NewScheduler wires the timing driver to the pipeline.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, store ports.IdeaStore, logger *slog.Logger, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		driver:   driver,
		pipeline: pipeline,
		store:    store,
		logger:   logger,
		loc:      loc,
		now:      time.Now,
	}
}

// Start performs the catch-up check and then hands the recurring runs to the
// timing driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if err := s.runIfNeeded(ctx); err != nil {
		s.log().Error("startup catch-up run failed", "error", err)
	}

	return s.driver.Start(ctx, func(t time.Time) {
		s.log().Info("scheduled discovery run", "at", t)
		if _, err := s.pipeline.RunDiscovery(ctx); err != nil {
			s.log().Error("scheduled run failed", "error", err)
		}
	})
}

// Stop halts the timing driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	return s.driver.Stop(ctx)
}

// runIfNeeded triggers an immediate run when no active idea was published
// since local midnight.
func (s *Scheduler) runIfNeeded(ctx context.Context) error {
	local := s.now().In(s.loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc)

	count, err := s.store.CountActiveSince(ctx, midnight)
	if err != nil {
		return fmt.Errorf("check today's ideas: %w", err)
	}
	if count > 0 {
		s.log().Info("idea already published today, waiting for next schedule", "count", count)
		return nil
	}

	s.log().Info("no active idea for today, running discovery now")
	if _, err := s.pipeline.RunDiscovery(ctx); err != nil {
		return fmt.Errorf("catch-up run: %w", err)
	}
	return nil
}

func (s *Scheduler) log() *slog.Logger {
	if s.logger == nil {
		return slog.Default()
	}
	return s.logger
}
