package domain

import (
	"strings"
	"time"
)

// SourceType is the closed set of upstream source tags. Collectors normalize
// anything else to SourceUnknown before records enter the pipeline.
type SourceType string

const (
	// SourceIdeaBrowser is the primary curated source.
	SourceIdeaBrowser SourceType = "ideabrowser"
	// SourceShowHN tags Show HN posts, which are usually actual launches.
	SourceShowHN SourceType = "hackernews_showhn"
	// SourceProductHunt tags products already validated by the marketplace.
	SourceProductHunt SourceType = "producthunt"
	// SourceHackerNews tags generic community stories.
	SourceHackerNews SourceType = "hackernews"
	// SourceUnknown covers feeds with no recognized tag.
	SourceUnknown SourceType = "unknown"
)

// NormalizeSourceType maps a free-form tag onto the closed SourceType set.
func NormalizeSourceType(tag string) SourceType {
	switch SourceType(strings.ToLower(strings.TrimSpace(tag))) {
	case SourceIdeaBrowser:
		return SourceIdeaBrowser
	case SourceShowHN:
		return SourceShowHN
	case SourceProductHunt:
		return SourceProductHunt
	case SourceHackerNews:
		return SourceHackerNews
	default:
		return SourceUnknown
	}
}

// Categories is the fixed taxonomy of known business categories.
var Categories = []string{
	"saas", "mobile-app", "web-app", "ecommerce", "fintech",
	"healthtech", "edtech", "ai-ml", "blockchain", "social",
	"productivity", "marketing", "analytics", "automation",
	"marketplace", "subscription", "freemium", "b2b", "b2c",
}

// RawIdea is a normalized candidate produced by a source collector.
// It carries no identity beyond its structural fields and is never
// persisted as-is.
type RawIdea struct {
	Title        string
	Content      string
	SourceURL    string
	SourceType   SourceType
	Category     string
	Engagement   float64
	CommentCount int
	ObservedAt   time.Time
}

// ScoredIdea pairs a candidate with its heuristic quality score.
// It lives only within a single discovery run.
type ScoredIdea struct {
	RawIdea
	QualityScore float64
}

// EnrichedSummary is the localized payload produced by the enrichment service.
type EnrichedSummary struct {
	LocalizedTitle   string
	LocalizedSummary string
}

// PublishedIdea is the persisted daily winner. It is created unarchived and
// flipped to archived once it outlives the archival threshold; it is never
// deleted.
type PublishedIdea struct {
	ID          int64
	Title       string
	SourceURL   string
	Summary     string
	Language    string
	SourceType  SourceType
	PublishedAt time.Time
	Archived    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
