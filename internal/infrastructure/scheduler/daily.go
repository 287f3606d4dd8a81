package scheduler

import (
	"context"
	"fmt"
	"time"

	"IdeaOasis/internal/ports"
)

// DailyScheduler fires its job once per day at a fixed wall-clock time in a
// given location. The next fire time is recomputed after every run so DST
// shifts keep the local time stable.
type DailyScheduler struct {
	hour   int
	minute int
	loc    *time.Location
	stop   chan struct{}
}

var _ ports.Scheduler = (*DailyScheduler)(nil)

// NewDailyScheduler parses runAt as "HH:MM" local to loc.
func NewDailyScheduler(runAt string, loc *time.Location) (*DailyScheduler, error) {
	parsed, err := time.Parse("15:04", runAt)
	if err != nil {
		return nil, fmt.Errorf("parse run time %q: %w", runAt, err)
	}
	if loc == nil {
		loc = time.Local
	}

	return &DailyScheduler{
		hour:   parsed.Hour(),
		minute: parsed.Minute(),
		loc:    loc,
	}, nil
}

// nextRun returns the first scheduled time strictly after from.
func (d *DailyScheduler) nextRun(from time.Time) time.Time {
	local := from.In(d.loc)
	next := time.Date(local.Year(), local.Month(), local.Day(), d.hour, d.minute, 0, 0, d.loc)
	if !next.After(from) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// Start launches the scheduling goroutine. The job is not invoked
// immediately; the first run happens at the next scheduled time.
func (d *DailyScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil {
		return nil
	}

	if d.stop != nil {
		return nil
	}

	d.stop = make(chan struct{})
	go func() {
		for {
			now := time.Now()
			timer := time.NewTimer(d.nextRun(now).Sub(now))
			select {
			case t := <-timer.C:
				job(t)
			case <-ctx.Done():
				timer.Stop()
				return
			case <-d.stop:
				timer.Stop()
				return
			}
		}
	}()

	return nil
}

// Stop halts the scheduling goroutine.
func (d *DailyScheduler) Stop(ctx context.Context) error {
	if d.stop == nil {
		return nil
	}
	close(d.stop)
	d.stop = nil
	return nil
}
