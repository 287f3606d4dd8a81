package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"IdeaOasis/internal/domain"
)

const ideaBrowserHTML = `
<html><body>
  <article>
    <h2>Subscription box for houseplant care</h2>
    <p>A monthly subscription service delivering curated care kits for urban plant owners.</p>
    <a href="/ideas/houseplant-box">read more</a>
    <span class="tag">subscription</span>
  </article>
  <article>
    <h2>Untitled</h2>
    <p>short</p>
  </article>
</body></html>`

func TestIdeaBrowserFetchCandidates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(ideaBrowserHTML))
	}))
	defer server.Close()

	ib := NewIdeaBrowser(server.Client(), nil)
	ib.baseURL = server.URL
	ib.delay = false
	ib.sampleCategories = func(int) []string { return nil }

	ideas, err := ib.FetchCandidates(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchCandidates error: %v", err)
	}
	if len(ideas) != 1 {
		t.Fatalf("expected 1 idea, got %d", len(ideas))
	}

	idea := ideas[0]
	if idea.Title != "Subscription box for houseplant care" {
		t.Fatalf("unexpected title: %s", idea.Title)
	}
	if idea.SourceType != domain.SourceIdeaBrowser {
		t.Fatalf("unexpected source type: %s", idea.SourceType)
	}
	if idea.Category != "subscription" {
		t.Fatalf("unexpected category: %s", idea.Category)
	}
	if idea.SourceURL != server.URL+"/ideas/houseplant-box" {
		t.Fatalf("relative link not resolved: %s", idea.SourceURL)
	}
}

func TestIdeaBrowserFetchByCategory(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/category/fintech" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`
<article>
  <h2>Payroll tool for micro businesses</h2>
  <p>Automated payroll and tax filings for companies with fewer than five employees.</p>
  <a href="/ideas/payroll">more</a>
</article>`))
	}))
	defer server.Close()

	ib := NewIdeaBrowser(server.Client(), nil)
	ib.baseURL = server.URL
	ib.delay = false

	ideas, err := ib.FetchByCategory(context.Background(), "fintech", 5)
	if err != nil {
		t.Fatalf("FetchByCategory error: %v", err)
	}
	if len(ideas) != 1 {
		t.Fatalf("expected 1 idea, got %d", len(ideas))
	}
	if ideas[0].Category != "fintech" {
		t.Fatalf("category not applied to records: %s", ideas[0].Category)
	}
}
