package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"IdeaOasis/internal/dedup"
	"IdeaOasis/internal/domain"
	"IdeaOasis/internal/lifecycle"
	"IdeaOasis/internal/ports"
	"IdeaOasis/internal/scoring"
	"IdeaOasis/internal/selection"
)

// PipelineDeps wires all collaborators into the discovery pipeline.
type PipelineDeps struct {
	Collectors       []ports.SourceCollector
	Scorer           *scoring.Engine
	Dedup            *dedup.Filter
	Lifecycle        *lifecycle.Manager
	Enricher         ports.Enricher
	Store            ports.IdeaStore
	Logger           *slog.Logger
	FetchLimit       int
	Language         string
	ArchiveThreshold time.Duration
}

// Pipeline drives one end-to-end discovery run: collect, score, dedup,
// select, enrich, persist, then sweep stale ideas into the archive.
type Pipeline struct {
	collectors       []ports.SourceCollector
	scorer           *scoring.Engine
	dedup            *dedup.Filter
	lifecycle        *lifecycle.Manager
	enricher         ports.Enricher
	store            ports.IdeaStore
	logger           *slog.Logger
	fetchLimit       int
	language         string
	archiveThreshold time.Duration
	now              func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	limit := deps.FetchLimit
	if limit <= 0 {
		limit = 30
	}
	language := deps.Language
	if language == "" {
		language = "ko"
	}
	return &Pipeline{
		collectors:       deps.Collectors,
		scorer:           deps.Scorer,
		dedup:            deps.Dedup,
		lifecycle:        deps.Lifecycle,
		enricher:         deps.Enricher,
		store:            deps.Store,
		logger:           deps.Logger,
		fetchLimit:       limit,
		language:         language,
		archiveThreshold: deps.ArchiveThreshold,
		now:              time.Now,
	}
}

// RunDiscovery executes one discovery run and returns the published idea, or
// nil when the run short-circuits with nothing to publish. The archival sweep
// runs as a trailing step regardless of how discovery ended.
func (p *Pipeline) RunDiscovery(ctx context.Context) (*domain.PublishedIdea, error) {
	published, err := p.discover(ctx)

	if p.lifecycle != nil {
		archived, sweepErr := p.lifecycle.ArchiveStale(ctx, p.archiveThreshold)
		if sweepErr != nil {
			p.log().Error("archival sweep failed", "error", sweepErr)
		} else if archived > 0 {
			p.log().Info("archived stale ideas", "count", archived)
		}
	}

	return published, err
}

func (p *Pipeline) discover(ctx context.Context) (*domain.PublishedIdea, error) {
	candidates := p.collect(ctx)
	if len(candidates) == 0 {
		p.log().Info("no candidates collected, skipping run")
		return nil, nil
	}

	ranked := p.rank(candidates)
	if len(ranked) == 0 {
		p.log().Info("no candidates passed scoring, skipping run")
		return nil, nil
	}

	unique, err := p.dropDuplicates(ctx, ranked)
	if err != nil {
		return nil, err
	}
	if len(unique) == 0 {
		p.log().Info("all candidates are duplicates, skipping run")
		return nil, nil
	}

	winner, ok := selection.Select(unique)
	if !ok {
		return nil, nil
	}
	p.log().Info("selected idea",
		"title", winner.Title,
		"source", winner.SourceType,
		"score", winner.QualityScore)

	summary := p.enrich(ctx, winner.RawIdea)

	idea := domain.PublishedIdea{
		Title:       summary.LocalizedTitle,
		SourceURL:   winner.SourceURL,
		Summary:     summary.LocalizedSummary,
		Language:    p.language,
		SourceType:  winner.SourceType,
		PublishedAt: p.now(),
		Archived:    false,
	}

	saved, err := p.store.Insert(ctx, idea)
	if err != nil {
		return nil, fmt.Errorf("persist idea: %w", err)
	}

	p.log().Info("published idea", "id", saved.ID, "title", saved.Title)
	return &saved, nil
}

// collectOutcome records what a single collector produced or why it failed,
// so source failures can be logged distinctly without aborting the run.
type collectOutcome struct {
	source  string
	records []domain.RawIdea
	err     error
}

func (p *Pipeline) collect(ctx context.Context) []domain.RawIdea {
	var all []domain.RawIdea
	for _, collector := range p.collectors {
		outcome := p.fetchFrom(ctx, collector)
		if outcome.err != nil {
			p.log().Warn("collector failed", "source", outcome.source, "error", outcome.err)
			continue
		}
		p.log().Debug("collector done", "source", outcome.source, "count", len(outcome.records))
		all = append(all, outcome.records...)
	}
	return all
}

// fetchFrom shields the run from a misbehaving collector: a panic inside one
// source becomes a failed outcome for that source only.
func (p *Pipeline) fetchFrom(ctx context.Context, collector ports.SourceCollector) (outcome collectOutcome) {
	outcome.source = collector.Name()
	defer func() {
		if r := recover(); r != nil {
			outcome.records = nil
			outcome.err = fmt.Errorf("collector panicked: %v", r)
		}
	}()
	outcome.records, outcome.err = collector.FetchCandidates(ctx, p.fetchLimit)
	return outcome
}

func (p *Pipeline) rank(candidates []domain.RawIdea) []domain.ScoredIdea {
	scored := make([]domain.ScoredIdea, 0, len(candidates))
	for _, candidate := range candidates {
		score := p.scorer.Score(candidate)
		if score <= 0 {
			continue
		}
		scored = append(scored, domain.ScoredIdea{RawIdea: candidate, QualityScore: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].QualityScore > scored[j].QualityScore
	})
	return scored
}

func (p *Pipeline) dropDuplicates(ctx context.Context, ranked []domain.ScoredIdea) ([]domain.ScoredIdea, error) {
	unique := make([]domain.ScoredIdea, 0, len(ranked))
	for _, candidate := range ranked {
		duplicate, err := p.dedup.IsDuplicate(ctx, candidate.Title)
		if err != nil {
			return nil, fmt.Errorf("dedup check for %q: %w", candidate.Title, err)
		}
		if duplicate {
			p.log().Debug("skipping duplicate", "title", candidate.Title)
			continue
		}
		unique = append(unique, candidate)
	}
	return unique, nil
}

// enrich asks the enrichment service for a localized summary and falls back
// to a deterministic template when the service fails or returns an empty
// payload. The run never aborts here.
func (p *Pipeline) enrich(ctx context.Context, winner domain.RawIdea) domain.EnrichedSummary {
	if p.enricher != nil {
		summary, err := p.enricher.Enrich(ctx, winner)
		if err == nil && strings.TrimSpace(summary.LocalizedSummary) != "" {
			if summary.LocalizedTitle == "" {
				summary.LocalizedTitle = winner.Title
			}
			return summary
		}
		if err != nil {
			p.log().Warn("enrichment failed, using fallback", "error", err)
		} else {
			p.log().Warn("enrichment returned empty summary, using fallback")
		}
	}
	return fallbackSummary(winner)
}

const fallbackTemplate = `💡 오늘의 해외 아이디어

📋 아이디어 개요
• %s

🎯 핵심 가치 제안
• 해외에서 주목받고 있는 혁신적인 아이디어입니다.

🌏 한국 시장 적용 방안
• 한국 시장에 맞게 로컬라이징하여 적용할 수 있습니다.

🚀 실행 로드맵
• MVP 개발부터 단계적 런칭을 고려해보세요.`

// fallbackSummary builds the deterministic substitute payload used when the
// enrichment service is unavailable. It embeds an excerpt of the original
// content so the published record stays recognizable.
func fallbackSummary(idea domain.RawIdea) domain.EnrichedSummary {
	title := idea.Title
	if strings.TrimSpace(title) == "" {
		title = "해외 스타트업 아이디어"
	}
	return domain.EnrichedSummary{
		LocalizedTitle:   title,
		LocalizedSummary: fmt.Sprintf(fallbackTemplate, excerpt(idea.Content, 100)),
	}
}

func excerpt(content string, max int) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= max {
		return string(runes)
	}
	return string(runes[:max]) + "..."
}

func (p *Pipeline) log() *slog.Logger {
	if p.logger == nil {
		return slog.Default()
	}
	return p.logger
}
