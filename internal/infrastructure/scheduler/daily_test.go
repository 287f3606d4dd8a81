package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestNewDailySchedulerRejectsBadFormat(t *testing.T) {
	t.Parallel()

	if _, err := NewDailyScheduler("6am", time.UTC); err == nil {
		t.Fatal("expected error for non HH:MM run time")
	}
	if _, err := NewDailyScheduler("25:00", time.UTC); err == nil {
		t.Fatal("expected error for out-of-range hour")
	}
}

func TestNextRunSameDay(t *testing.T) {
	t.Parallel()

	sched, err := NewDailyScheduler("06:00", time.UTC)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	from := time.Date(2024, 3, 10, 4, 30, 0, 0, time.UTC)
	next := sched.nextRun(from)
	want := time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("nextRun = %v, want %v", next, want)
	}
}

func TestNextRunRollsToTomorrow(t *testing.T) {
	t.Parallel()

	sched, err := NewDailyScheduler("06:00", time.UTC)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	from := time.Date(2024, 3, 10, 7, 0, 0, 0, time.UTC)
	next := sched.nextRun(from)
	want := time.Date(2024, 3, 11, 6, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("nextRun = %v, want %v", next, want)
	}
}

func TestNextRunExactBoundaryRolls(t *testing.T) {
	t.Parallel()

	sched, err := NewDailyScheduler("06:00", time.UTC)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	from := time.Date(2024, 3, 10, 6, 0, 0, 0, time.UTC)
	next := sched.nextRun(from)
	if !next.After(from) {
		t.Fatalf("nextRun must be strictly after from, got %v", next)
	}
	if next.Day() != 11 {
		t.Fatalf("expected tomorrow, got %v", next)
	}
}

func TestNextRunHonorsLocation(t *testing.T) {
	t.Parallel()

	seoul, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	sched, err := NewDailyScheduler("06:00", seoul)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	// 20:00 UTC is 05:00 the next day in Seoul, so the run is an hour away.
	from := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)
	next := sched.nextRun(from)
	if got := next.Sub(from); got != time.Hour {
		t.Fatalf("expected run in 1h, got %v", got)
	}
}

func TestStartAndStop(t *testing.T) {
	t.Parallel()

	sched, err := NewDailyScheduler("06:00", time.UTC)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := sched.Start(ctx, func(time.Time) {}); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := sched.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	// Stopping twice is a no-op.
	if err := sched.Stop(ctx); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}
