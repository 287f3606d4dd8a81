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

const hackerNewsBaseURL = "https://news.ycombinator.com"

// HackerNews scrapes the front page for startup-flavored stories and the
// Show HN page for launch announcements.
type HackerNews struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
	delay   bool
}

var _ ports.SourceCollector = (*HackerNews)(nil)

// NewHackerNews wires an HTTP client; a nil client gets a 10s timeout default.
func NewHackerNews(client *http.Client, logger *slog.Logger) *HackerNews {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HackerNews{client: client, baseURL: hackerNewsBaseURL, logger: logger, delay: true}
}

// Name identifies the collector inside the registry.
func (h *HackerNews) Name() string {
	return "hackernews"
}

// FetchCandidates returns up to limit front-page stories that look
// startup-related, plus up to limit/2 Show HN posts tagged as launches.
func (h *HackerNews) FetchCandidates(ctx context.Context, limit int) ([]domain.RawIdea, error) {
	if limit <= 0 {
		limit = 30
	}

	front, err := h.scrapePage(ctx, h.baseURL, limit, domain.SourceHackerNews, true)
	if err != nil {
		return nil, fmt.Errorf("front page: %w", err)
	}

	show, err := h.scrapePage(ctx, h.baseURL+"/show", limit/2, domain.SourceShowHN, false)
	if err != nil {
		// The front page already produced candidates; keep them.
		h.debug("show hn scrape failed", "error", err)
		return front, nil
	}

	return append(front, show...), nil
}

func (h *HackerNews) scrapePage(ctx context.Context, pageURL string, limit int, source domain.SourceType, filter bool) ([]domain.RawIdea, error) {
	doc, err := fetchDocument(ctx, h.client, pageURL)
	if err != nil {
		return nil, err
	}

	observed := time.Now()
	var ideas []domain.RawIdea

	doc.Find("tr.athing").EachWithBreak(func(i int, row *goquery.Selection) bool {
		if len(ideas) >= limit {
			return false
		}

		idea, ok := h.parseRow(row, source, observed)
		if !ok {
			return true
		}
		if filter && !looksRelevant(idea.Title, idea.Content) {
			return true
		}
		ideas = append(ideas, idea)

		if h.delay {
			politeness(ctx, 100*time.Millisecond, 300*time.Millisecond)
		}
		return ctx.Err() == nil
	})

	h.debug("page scraped", "url", pageURL, "count", len(ideas))
	return ideas, ctx.Err()
}

func (h *HackerNews) parseRow(row *goquery.Selection, source domain.SourceType, observed time.Time) (domain.RawIdea, bool) {
	link := row.Find("span.titleline a").First()
	if link.Length() == 0 {
		link = row.Find("a.storylink").First()
	}
	title := strings.TrimSpace(link.Text())
	if title == "" {
		return domain.RawIdea{}, false
	}

	href, _ := link.Attr("href")
	href = absoluteURL(h.baseURL, href)

	// Score and comment count live in the subtext row right below.
	subtext := row.Next()
	score := firstNumber(subtext.Find("span.score").First().Text())

	comments := 0
	subtext.Find("a").Each(func(i int, a *goquery.Selection) {
		if strings.Contains(a.Text(), "comment") {
			comments = firstNumber(a.Text())
		}
	})

	return domain.RawIdea{
		Title:        title,
		SourceURL:    href,
		SourceType:   source,
		Engagement:   float64(score),
		CommentCount: comments,
		ObservedAt:   observed,
	}, true
}

func (h *HackerNews) debug(msg string, args ...any) {
	if h.logger != nil {
		h.logger.Debug(msg, args...)
	}
}
