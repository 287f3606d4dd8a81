package ports

import (
	"context"
	"time"

	"IdeaOasis/internal/domain"
)

// SourceCollector pulls candidate ideas from one upstream source. Internal
// failures must surface as an error or an empty slice, never a panic, so the
// orchestrator can isolate them per source.
type SourceCollector interface {
	Name() string
	FetchCandidates(ctx context.Context, limit int) ([]domain.RawIdea, error)
}

// Enricher localizes a winning candidate into presentation-ready text.
// It may fail or return malformed output; the orchestrator substitutes its
// own fallback and never retries.
type Enricher interface {
	Enrich(ctx context.Context, idea domain.RawIdea) (domain.EnrichedSummary, error)
}

// IdeaStore persists published ideas and answers the dedup and lifecycle
// queries the pipeline issues. The votes table it also hosts belongs to the
// presentation layer and is never touched here.
type IdeaStore interface {
	// FindByTitleSince returns an idea with the exact title created at or
	// after since, or nil when none exists.
	FindByTitleSince(ctx context.Context, title string, since time.Time) (*domain.PublishedIdea, error)
	// FindByTitleSubstringSince returns ideas created at or after since whose
	// title contains token, case-insensitive.
	FindByTitleSubstringSince(ctx context.Context, token string, since time.Time) ([]domain.PublishedIdea, error)
	Insert(ctx context.Context, idea domain.PublishedIdea) (domain.PublishedIdea, error)
	// FindStale returns unarchived ideas created before cutoff.
	FindStale(ctx context.Context, cutoff time.Time) ([]domain.PublishedIdea, error)
	UpdateArchivedFlag(ctx context.Context, ids []int64) error
	// CountActiveSince counts unarchived ideas created at or after since.
	CountActiveSince(ctx context.Context, since time.Time) (int, error)
}

// Scheduler controls when discovery runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
