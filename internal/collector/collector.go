package collector

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"IdeaOasis/internal/ports"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Registry keeps a mapping from collector names to their implementations.
type Registry struct {
	collectors map[string]ports.SourceCollector
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{collectors: map[string]ports.SourceCollector{}}
}

// Register adds or replaces a collector implementation.
func (r *Registry) Register(collector ports.SourceCollector) {
	if r.collectors == nil {
		r.collectors = map[string]ports.SourceCollector{}
	}
	r.collectors[collector.Name()] = collector
}

// Resolve returns a collector by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.SourceCollector, error) {
	if collector, ok := r.collectors[name]; ok {
		return collector, nil
	}
	return nil, fmt.Errorf("collector %s is not registered", name)
}

// Vocabulary that separates product/startup material from general discussion.
var startupKeywords = []string{
	"startup", "saas", "app", "product", "business", "entrepreneur",
	"launch", "idea", "project", "tool", "service", "platform",
	"marketplace", "api", "software", "tech", "innovation",
	"funding", "venture", "capital", "accelerator", "incubator",
	"indie", "bootstrapped", "side project", "mvp", "prototype",
	"revenue",
}

// looksRelevant reports whether any of the text fragments mention
// startup-flavored vocabulary.
func looksRelevant(parts ...string) bool {
	text := strings.ToLower(strings.Join(parts, " "))
	for _, keyword := range startupKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

var digits = regexp.MustCompile(`\d+`)

// firstNumber extracts the leading integer from text like "312 points".
func firstNumber(text string) int {
	match := digits.FindString(text)
	if match == "" {
		return 0
	}
	n, err := strconv.Atoi(match)
	if err != nil {
		return 0
	}
	return n
}

// politeness sleeps a short randomized interval between page fetches so
// collectors do not hammer upstream sites. It returns early when the context
// is cancelled.
func politeness(ctx context.Context, min, max time.Duration) {
	delay := min
	if max > min {
		delay += time.Duration(rand.Int63n(int64(max - min)))
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
	}
}

// fetchDocument retrieves pageURL and parses it into a goquery document.
func fetchDocument(ctx context.Context, client *http.Client, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func absoluteURL(base, href string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(href, "/")
}
