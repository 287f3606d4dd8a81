package dedup

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"IdeaOasis/internal/domain"
	"IdeaOasis/internal/ports"
)

type fakeStore struct {
	ports.IdeaStore

	ideas     []domain.PublishedIdea
	failExact error
	failToken error
}

func (s *fakeStore) FindByTitleSince(_ context.Context, title string, since time.Time) (*domain.PublishedIdea, error) {
	if s.failExact != nil {
		return nil, s.failExact
	}
	for i := range s.ideas {
		if s.ideas[i].Title == title && !s.ideas[i].CreatedAt.Before(since) {
			return &s.ideas[i], nil
		}
	}
	return nil, nil
}

func (s *fakeStore) FindByTitleSubstringSince(_ context.Context, token string, since time.Time) ([]domain.PublishedIdea, error) {
	if s.failToken != nil {
		return nil, s.failToken
	}
	var matches []domain.PublishedIdea
	for _, idea := range s.ideas {
		if strings.Contains(strings.ToLower(idea.Title), strings.ToLower(token)) && !idea.CreatedAt.Before(since) {
			matches = append(matches, idea)
		}
	}
	return matches, nil
}

func fixedNow() time.Time {
	return time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
}

func TestIsDuplicateExactTitle(t *testing.T) {
	t.Parallel()

	store := &fakeStore{ideas: []domain.PublishedIdea{
		{Title: "Remote Team VR Collaboration Tool", CreatedAt: fixedNow().AddDate(0, 0, -5)},
	}}
	filter := NewFilterAt(store, 30, fixedNow)

	dup, err := filter.IsDuplicate(context.Background(), "Remote Team VR Collaboration Tool")
	if err != nil {
		t.Fatalf("IsDuplicate error: %v", err)
	}
	if !dup {
		t.Fatal("expected exact title match to be a duplicate")
	}
}

func TestIsDuplicateSharedToken(t *testing.T) {
	t.Parallel()

	store := &fakeStore{ideas: []domain.PublishedIdea{
		{Title: "Remote Team VR Collaboration Tool", CreatedAt: fixedNow().AddDate(0, 0, -10)},
	}}
	filter := NewFilterAt(store, 30, fixedNow)

	dup, err := filter.IsDuplicate(context.Background(), "Remote Team VR Platform")
	if err != nil {
		t.Fatalf("IsDuplicate error: %v", err)
	}
	if !dup {
		t.Fatal("expected shared >3-char token to be a duplicate")
	}
}

func TestIsDuplicateIgnoresShortTokens(t *testing.T) {
	t.Parallel()

	store := &fakeStore{ideas: []domain.PublishedIdea{
		{Title: "The Best App Ever", CreatedAt: fixedNow().AddDate(0, 0, -1)},
	}}
	filter := NewFilterAt(store, 30, fixedNow)

	// "app", "for" and "fun" are all <= 3 chars and must not trigger matches.
	dup, err := filter.IsDuplicate(context.Background(), "app for fun")
	if err != nil {
		t.Fatalf("IsDuplicate error: %v", err)
	}
	if dup {
		t.Fatal("short tokens must not count as duplicates")
	}
}

func TestIsDuplicateOutsideWindow(t *testing.T) {
	t.Parallel()

	store := &fakeStore{ideas: []domain.PublishedIdea{
		{Title: "Remote Team VR Collaboration Tool", CreatedAt: fixedNow().AddDate(0, 0, -45)},
	}}
	filter := NewFilterAt(store, 30, fixedNow)

	dup, err := filter.IsDuplicate(context.Background(), "Remote Team VR Collaboration Tool")
	if err != nil {
		t.Fatalf("IsDuplicate error: %v", err)
	}
	if dup {
		t.Fatal("titles outside the window must not be duplicates")
	}
}

func TestIsDuplicateLookupFailure(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("connection refused")
	store := &fakeStore{failExact: wantErr}
	filter := NewFilterAt(store, 30, fixedNow)

	_, err := filter.IsDuplicate(context.Background(), "Anything Goes Here")
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected lookup failure to surface, got %v", err)
	}
}
