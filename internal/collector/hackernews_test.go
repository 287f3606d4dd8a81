package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"IdeaOasis/internal/domain"
)

const hnFrontHTML = `
<table>
  <tr class="athing" id="1">
    <td class="title"><span class="titleline"><a href="https://example.com/tool">Launch of our SaaS tool</a></span></td>
  </tr>
  <tr>
    <td class="subtext"><span class="score">120 points</span> <a href="item?id=1">45&nbsp;comments</a></td>
  </tr>
  <tr class="athing" id="2">
    <td class="title"><span class="titleline"><a href="item?id=2">Dark matter measurements revisited</a></span></td>
  </tr>
  <tr>
    <td class="subtext"><span class="score">300 points</span> <a href="item?id=2">10&nbsp;comments</a></td>
  </tr>
</table>`

const hnShowHTML = `
<table>
  <tr class="athing" id="3">
    <td class="title"><span class="titleline"><a href="https://example.com/photos">Show HN: Weekend photo organizer</a></span></td>
  </tr>
  <tr>
    <td class="subtext"><span class="score">40 points</span> <a href="item?id=3">12&nbsp;comments</a></td>
  </tr>
</table>`

func TestHackerNewsFetchCandidates(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/show":
			_, _ = w.Write([]byte(hnShowHTML))
		default:
			_, _ = w.Write([]byte(hnFrontHTML))
		}
	}))
	defer server.Close()

	hn := NewHackerNews(server.Client(), nil)
	hn.baseURL = server.URL
	hn.delay = false

	ideas, err := hn.FetchCandidates(context.Background(), 10)
	if err != nil {
		t.Fatalf("FetchCandidates error: %v", err)
	}

	if len(ideas) != 2 {
		t.Fatalf("expected 2 ideas (filtered front + show), got %d", len(ideas))
	}

	front := ideas[0]
	if front.Title != "Launch of our SaaS tool" {
		t.Fatalf("unexpected front-page title: %s", front.Title)
	}
	if front.SourceType != domain.SourceHackerNews {
		t.Fatalf("unexpected source type: %s", front.SourceType)
	}
	if front.Engagement != 120 {
		t.Fatalf("expected engagement 120, got %v", front.Engagement)
	}
	if front.CommentCount != 45 {
		t.Fatalf("expected 45 comments, got %d", front.CommentCount)
	}

	show := ideas[1]
	if show.SourceType != domain.SourceShowHN {
		t.Fatalf("show hn post must carry the launch tag, got %s", show.SourceType)
	}
	if show.Engagement != 40 {
		t.Fatalf("expected engagement 40, got %v", show.Engagement)
	}
}

func TestHackerNewsRelativeLinks(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/show" {
			_, _ = w.Write([]byte("<table></table>"))
			return
		}
		_, _ = w.Write([]byte(`
<table>
  <tr class="athing" id="9">
    <td class="title"><span class="titleline"><a href="item?id=9">Ask HN: validating a startup idea</a></span></td>
  </tr>
  <tr><td class="subtext"><span class="score">10 points</span></td></tr>
</table>`))
	}))
	defer server.Close()

	hn := NewHackerNews(server.Client(), nil)
	hn.baseURL = server.URL
	hn.delay = false

	ideas, err := hn.FetchCandidates(context.Background(), 5)
	if err != nil {
		t.Fatalf("FetchCandidates error: %v", err)
	}
	if len(ideas) != 1 {
		t.Fatalf("expected 1 idea, got %d", len(ideas))
	}
	if ideas[0].SourceURL != server.URL+"/item?id=9" {
		t.Fatalf("relative href not resolved: %s", ideas[0].SourceURL)
	}
}
