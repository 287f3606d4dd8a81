package scoring

import (
	"math"
	"strings"
	"time"

	"IdeaOasis/internal/domain"
)

// Bonuses by source tag; the primary curated source ranks highest.
var sourceBonus = map[domain.SourceType]float64{
	domain.SourceIdeaBrowser: 4,
	domain.SourceShowHN:      3,
	domain.SourceProductHunt: 2.5,
	domain.SourceHackerNews:  2,
}

// Keywords that signal an idea is being executed, not just discussed.
var qualityKeywords = []string{"mvp", "prototype", "launch", "beta", "alpha", "funding", "revenue"}

// Engine assigns heuristic quality scores to raw candidates. Scoring is pure
// and deterministic for a fixed record and a fixed current time.
type Engine struct {
	now func() time.Time
}

// NewEngine returns an engine using the wall clock.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// NewEngineAt pins the engine's notion of "now", for deterministic scoring.
func NewEngineAt(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Score sums engagement, comment, source, category, recency, content-length
// and keyword signals, then clamps the result at zero.
func (e *Engine) Score(idea domain.RawIdea) float64 {
	var score float64

	if idea.Engagement > 0 {
		score += math.Min(idea.Engagement/100, 5)
	}
	if idea.CommentCount > 0 {
		score += math.Min(float64(idea.CommentCount)/10, 3)
	}

	score += sourceBonus[idea.SourceType]

	if matchesCategory(idea.Category) {
		score += 1.5
	}

	if !idea.ObservedAt.IsZero() && e.now().Sub(idea.ObservedAt) < 24*time.Hour {
		score++
	}

	switch length := len(idea.Content); {
	case length < 50:
		score -= 2
	case length > 500:
		score += 2
	case length > 200:
		score += 1.5
	}

	text := strings.ToLower(idea.Title + " " + idea.Content)
	for _, keyword := range qualityKeywords {
		if strings.Contains(text, keyword) {
			score++
			break
		}
	}

	return math.Max(score, 0)
}

func matchesCategory(category string) bool {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return false
	}
	for _, known := range domain.Categories {
		if strings.Contains(category, known) {
			return true
		}
	}
	return false
}
