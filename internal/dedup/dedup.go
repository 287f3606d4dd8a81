package dedup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"IdeaOasis/internal/ports"
)

// DefaultWindowDays is the trailing span titles are checked against.
const DefaultWindowDays = 30

// Filter decides whether a candidate duplicates a recently published idea.
// The check is intentionally broad: skipping a possibly-fresh idea is
// preferred over publishing a visible repeat.
type Filter struct {
	store      ports.IdeaStore
	windowDays int
	now        func() time.Time
}

// NewFilter builds a filter over the given store. windowDays <= 0 falls back
// to DefaultWindowDays.
func NewFilter(store ports.IdeaStore, windowDays int) *Filter {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Filter{store: store, windowDays: windowDays, now: time.Now}
}

// NewFilterAt pins the filter's clock, for tests.
func NewFilterAt(store ports.IdeaStore, windowDays int, now func() time.Time) *Filter {
	filter := NewFilter(store, windowDays)
	if now != nil {
		filter.now = now
	}
	return filter
}

// IsDuplicate reports whether title repeats a published idea inside the
// window, either as an exact match or by sharing any token longer than three
// characters as a case-insensitive substring. A lookup failure is returned as
// an error: uniqueness cannot be assumed when the store is unreachable.
func (f *Filter) IsDuplicate(ctx context.Context, title string) (bool, error) {
	since := f.now().AddDate(0, 0, -f.windowDays)

	existing, err := f.store.FindByTitleSince(ctx, title, since)
	if err != nil {
		return false, fmt.Errorf("exact title lookup: %w", err)
	}
	if existing != nil {
		return true, nil
	}

	for _, token := range strings.Fields(strings.ToLower(title)) {
		if len(token) <= 3 {
			continue
		}
		matches, err := f.store.FindByTitleSubstringSince(ctx, token, since)
		if err != nil {
			return false, fmt.Errorf("token lookup %q: %w", token, err)
		}
		if len(matches) > 0 {
			return true, nil
		}
	}

	return false, nil
}
