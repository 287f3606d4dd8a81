package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"IdeaOasis/internal/domain"
	"IdeaOasis/internal/ports"
)

// RSSFeed collects candidates from a single configured feed. Feeds declare a
// source tag in config; unrecognized tags are normalized to the unknown
// source at this boundary, never deeper in the pipeline.
type RSSFeed struct {
	name    string
	feedURL string
	source  domain.SourceType
	parser  *gofeed.Parser
}

var _ ports.SourceCollector = (*RSSFeed)(nil)

// NewRSSFeed builds a collector for one feed.
func NewRSSFeed(name, feedURL, sourceTag string, client *http.Client) *RSSFeed {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	parser := gofeed.NewParser()
	parser.Client = client
	parser.UserAgent = userAgent
	return &RSSFeed{
		name:    name,
		feedURL: feedURL,
		source:  domain.NormalizeSourceType(sourceTag),
		parser:  parser,
	}
}

// Name identifies the collector inside the registry.
func (f *RSSFeed) Name() string {
	return f.name
}

// FetchCandidates parses the feed and keeps the startup-relevant entries.
func (f *RSSFeed) FetchCandidates(ctx context.Context, limit int) ([]domain.RawIdea, error) {
	if limit <= 0 {
		limit = 30
	}

	feed, err := f.parser.ParseURLWithContext(f.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", f.feedURL, err)
	}

	ideas := make([]domain.RawIdea, 0, len(feed.Items))
	for _, item := range feed.Items {
		if len(ideas) >= limit {
			break
		}
		if item.Title == "" || !looksRelevant(item.Title, item.Description) {
			continue
		}

		observed := time.Now()
		if item.PublishedParsed != nil {
			observed = *item.PublishedParsed
		}

		ideas = append(ideas, domain.RawIdea{
			Title:      item.Title,
			Content:    item.Description,
			SourceURL:  item.Link,
			SourceType: f.source,
			ObservedAt: observed,
		})
	}

	return ideas, nil
}
