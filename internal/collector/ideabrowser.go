package collector

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"IdeaOasis/internal/domain"
	"IdeaOasis/internal/ports"
)

const ideaBrowserBaseURL = "https://www.ideabrowser.com"

// IdeaBrowser scrapes the primary curated source. Besides the landing and
// trending pages, each fetch samples a few random categories from the fixed
// taxonomy, mirroring how the site organizes its catalog.
type IdeaBrowser struct {
	client  *http.Client
	baseURL string
	logger  *slog.Logger
	delay   bool

	// sampleCategories picks which taxonomy entries to browse this run.
	sampleCategories func(n int) []string
}

var _ ports.SourceCollector = (*IdeaBrowser)(nil)

// NewIdeaBrowser wires an HTTP client; a nil client gets a 15s timeout default.
func NewIdeaBrowser(client *http.Client, logger *slog.Logger) *IdeaBrowser {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &IdeaBrowser{
		client:           client,
		baseURL:          ideaBrowserBaseURL,
		logger:           logger,
		delay:            true,
		sampleCategories: randomCategories,
	}
}

// Name identifies the collector inside the registry.
func (b *IdeaBrowser) Name() string {
	return "ideabrowser"
}

var ideaContainerSelectors = []string{
	"article",
	".idea-card",
	".card",
	".post",
	".item",
	`[class*="idea"]`,
	`[class*="card"]`,
	`[class*="post"]`,
}

// FetchCandidates aggregates the landing page, the trending page and three
// randomly sampled categories, deduplicated by URL.
func (b *IdeaBrowser) FetchCandidates(ctx context.Context, limit int) ([]domain.RawIdea, error) {
	if limit <= 0 {
		limit = 50
	}

	var all []domain.RawIdea
	seen := map[string]struct{}{}

	collect := func(ideas []domain.RawIdea) {
		for _, idea := range ideas {
			if _, ok := seen[idea.SourceURL]; ok {
				continue
			}
			seen[idea.SourceURL] = struct{}{}
			all = append(all, idea)
		}
	}

	general, err := b.scrapePage(ctx, b.baseURL, limit)
	if err != nil {
		return nil, fmt.Errorf("landing page: %w", err)
	}
	collect(general)

	// Secondary pages are best-effort; the landing page already yielded data.
	if trending, err := b.scrapePage(ctx, b.baseURL+"/trending", limit); err != nil {
		b.debug("trending scrape failed", "error", err)
	} else {
		collect(trending)
	}

	for _, category := range b.sampleCategories(3) {
		ideas, err := b.FetchByCategory(ctx, category, limit/3)
		if err != nil {
			b.debug("category scrape failed", "category", category, "error", err)
			continue
		}
		collect(ideas)
	}

	b.debug("ideabrowser fetch done", "count", len(all))
	return all, nil
}

// FetchByCategory scrapes a single category listing.
func (b *IdeaBrowser) FetchByCategory(ctx context.Context, category string, limit int) ([]domain.RawIdea, error) {
	if limit <= 0 {
		limit = 20
	}
	ideas, err := b.scrapePage(ctx, b.baseURL+"/category/"+url.PathEscape(category), limit)
	if err != nil {
		return nil, err
	}
	for i := range ideas {
		if ideas[i].Category == "" {
			ideas[i].Category = category
		}
	}
	return ideas, nil
}

// Search scrapes the site search results for query.
func (b *IdeaBrowser) Search(ctx context.Context, query string, limit int) ([]domain.RawIdea, error) {
	if limit <= 0 {
		limit = 10
	}
	return b.scrapePage(ctx, b.baseURL+"/search?q="+url.QueryEscape(query), limit)
}

func (b *IdeaBrowser) scrapePage(ctx context.Context, pageURL string, limit int) ([]domain.RawIdea, error) {
	doc, err := fetchDocument(ctx, b.client, pageURL)
	if err != nil {
		return nil, err
	}

	var containers *goquery.Selection
	for _, selector := range ideaContainerSelectors {
		containers = doc.Find(selector)
		if containers.Length() > 0 {
			break
		}
	}
	if containers == nil || containers.Length() == 0 {
		return nil, nil
	}

	observed := time.Now()
	var ideas []domain.RawIdea
	containers.EachWithBreak(func(i int, container *goquery.Selection) bool {
		if len(ideas) >= limit {
			return false
		}

		idea, ok := b.parseContainer(container, observed)
		if ok && looksRelevant(idea.Title, idea.Content, idea.Category) {
			ideas = append(ideas, idea)
		}

		if b.delay {
			politeness(ctx, 500*time.Millisecond, time.Second)
		}
		return ctx.Err() == nil
	})

	return ideas, ctx.Err()
}

func (b *IdeaBrowser) parseContainer(container *goquery.Selection, observed time.Time) (domain.RawIdea, bool) {
	title := strings.TrimSpace(container.Find(`h1, h2, h3, h4, h5, h6, .title, .heading, [class*="title"]`).First().Text())

	var content string
	container.Find(`p, .content, .description, .summary, [class*="content"], [class*="desc"]`).EachWithBreak(func(i int, el *goquery.Selection) bool {
		text := strings.TrimSpace(el.Text())
		if len(text) > 20 {
			content = text
			return false
		}
		if content == "" {
			content = text
		}
		return true
	})

	if title == "" || content == "" {
		return domain.RawIdea{}, false
	}

	href, _ := container.Find("a").First().Attr("href")
	href = absoluteURL(b.baseURL, href)
	if href == "" {
		href = b.baseURL
	}

	category := strings.TrimSpace(container.Find(`.category, .tag, .label, [class*="category"], [class*="tag"]`).First().Text())

	return domain.RawIdea{
		Title:      title,
		Content:    content,
		SourceURL:  href,
		SourceType: domain.SourceIdeaBrowser,
		Category:   category,
		ObservedAt: observed,
	}, true
}

func randomCategories(n int) []string {
	if n >= len(domain.Categories) {
		n = len(domain.Categories)
	}
	picked := rand.Perm(len(domain.Categories))[:n]
	categories := make([]string, 0, n)
	for _, idx := range picked {
		categories = append(categories, domain.Categories[idx])
	}
	return categories
}

func (b *IdeaBrowser) debug(msg string, args ...any) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}
