package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"IdeaOasis/internal/domain"
	"IdeaOasis/internal/ports"
)

type fakeDriver struct {
	started bool
	stopped bool
	job     func(time.Time)
}

func (d *fakeDriver) Start(_ context.Context, job func(time.Time)) error {
	d.started = true
	d.job = job
	return nil
}

func (d *fakeDriver) Stop(context.Context) error {
	d.stopped = true
	return nil
}

var _ ports.Scheduler = (*fakeDriver)(nil)

func newTestScheduler(store *fakeStore, driver *fakeDriver) *Scheduler {
	pipeline := newTestPipeline(store, []ports.SourceCollector{
		&fakeCollector{name: "a", records: []domain.RawIdea{candidate("catch up idea", 200)}},
	}, &fakeEnricher{summary: domain.EnrichedSummary{LocalizedTitle: "t", LocalizedSummary: "s"}})

	sched := NewScheduler(driver, pipeline, store, slog.New(slog.NewTextHandler(io.Discard, nil)), time.UTC)
	sched.now = fixedNow
	return sched
}

func TestSchedulerCatchesUpWhenDayIsEmpty(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	driver := &fakeDriver{}
	sched := newTestScheduler(store, driver)

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(store.inserted) != 1 {
		t.Fatalf("expected a catch-up run to publish, got %d inserts", len(store.inserted))
	}
	if !driver.started {
		t.Fatal("timing driver must be started")
	}
}

func TestSchedulerSkipsCatchUpWhenIdeaExists(t *testing.T) {
	t.Parallel()

	// Published today (fixedNow is 12:00 UTC, so this is after local midnight).
	store := &fakeStore{published: []domain.PublishedIdea{
		{ID: 1, Title: "already published", CreatedAt: fixedNow().Add(-2 * time.Hour)},
	}}
	driver := &fakeDriver{}
	sched := newTestScheduler(store, driver)

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if len(store.inserted) != 0 {
		t.Fatalf("no catch-up run expected, got %d inserts", len(store.inserted))
	}
	if !driver.started {
		t.Fatal("timing driver must be started")
	}
}

func TestSchedulerStartSurvivesCountFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{countErr: errors.New("store down")}
	driver := &fakeDriver{}
	sched := newTestScheduler(store, driver)

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("start must not fail on catch-up errors: %v", err)
	}
	if !driver.started {
		t.Fatal("timing driver must still be started")
	}
}

func TestSchedulerJobRunsPipeline(t *testing.T) {
	t.Parallel()

	// An idea published today suppresses the catch-up run, so the only
	// publish comes from the scheduled job itself.
	store := &fakeStore{published: []domain.PublishedIdea{
		{ID: 1, Title: "already published", CreatedAt: fixedNow().Add(-time.Hour)},
	}}
	driver := &fakeDriver{}
	sched := newTestScheduler(store, driver)

	if err := sched.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if driver.job == nil {
		t.Fatal("driver received no job")
	}

	driver.job(fixedNow())
	if len(store.inserted) != 1 {
		t.Fatalf("scheduled job should publish, got %d inserts", len(store.inserted))
	}
}

func TestSchedulerStopDelegates(t *testing.T) {
	t.Parallel()

	driver := &fakeDriver{}
	sched := newTestScheduler(&fakeStore{}, driver)

	if err := sched.Stop(context.Background()); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !driver.stopped {
		t.Fatal("stop must delegate to the driver")
	}
}
