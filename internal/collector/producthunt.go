package collector

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"IdeaOasis/internal/domain"
	"IdeaOasis/internal/ports"
)

const productHuntBaseURL = "https://www.producthunt.com"

// ProductHunt scrapes the daily leaderboard. Markup on the site is obfuscated,
// so extraction works off class-name fragments rather than exact selectors.
type ProductHunt struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
	delay   bool
}

var _ ports.SourceCollector = (*ProductHunt)(nil)

// NewProductHunt wires an HTTP client; a nil client gets a 10s timeout default.
func NewProductHunt(client *http.Client, logger *slog.Logger) *ProductHunt {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &ProductHunt{client: client, baseURL: productHuntBaseURL, logger: logger, delay: true}
}

// Name identifies the collector inside the registry.
func (p *ProductHunt) Name() string {
	return "producthunt"
}

var productContainerSelectors = []string{
	`[class*="product"]`,
	`article`,
	`[class*="item"]`,
	`[class*="card"]`,
	`[class*="post"]`,
}

// FetchCandidates scrapes today's products and keeps the startup-relevant ones.
func (p *ProductHunt) FetchCandidates(ctx context.Context, limit int) ([]domain.RawIdea, error) {
	if limit <= 0 {
		limit = 30
	}

	doc, err := fetchDocument(ctx, p.client, p.baseURL+"/today")
	if err != nil {
		return nil, fmt.Errorf("today page: %w", err)
	}

	var containers *goquery.Selection
	for _, selector := range productContainerSelectors {
		containers = doc.Find(selector)
		if containers.Length() > 0 {
			break
		}
	}
	if containers == nil || containers.Length() == 0 {
		p.debug("no product containers found")
		return nil, nil
	}

	observed := time.Now()
	var ideas []domain.RawIdea
	containers.EachWithBreak(func(i int, container *goquery.Selection) bool {
		if len(ideas) >= limit {
			return false
		}

		idea, ok := p.parseContainer(container, observed)
		if ok && looksRelevant(idea.Title, idea.Content) {
			ideas = append(ideas, idea)
		}

		if p.delay {
			politeness(ctx, 500*time.Millisecond, time.Second)
		}
		return ctx.Err() == nil
	})

	p.debug("today page scraped", "count", len(ideas))
	return ideas, ctx.Err()
}

func (p *ProductHunt) parseContainer(container *goquery.Selection, observed time.Time) (domain.RawIdea, bool) {
	title := strings.TrimSpace(container.Find("h1, h2, h3, h4, h5, h6").First().Text())
	tagline := strings.TrimSpace(container.Find(`[class*="description"], [class*="tagline"], [class*="summary"]`).First().Text())
	if title == "" || tagline == "" {
		return domain.RawIdea{}, false
	}

	href, _ := container.Find("a").First().Attr("href")
	href = absoluteURL(p.baseURL, href)
	if href == "" {
		href = p.baseURL
	}

	votes := firstNumber(container.Find(`[class*="vote"], [class*="score"], [class*="count"]`).First().Text())
	comments := firstNumber(container.Find(`[class*="comment"], [class*="reply"]`).First().Text())

	return domain.RawIdea{
		Title:        title,
		Content:      tagline,
		SourceURL:    href,
		SourceType:   domain.SourceProductHunt,
		Engagement:   float64(votes),
		CommentCount: comments,
		ObservedAt:   observed,
	}, true
}

func (p *ProductHunt) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
