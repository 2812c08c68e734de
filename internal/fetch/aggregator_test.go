package fetch

import (
	"context"
	"testing"
	"time"
)

// stubAdapter returns a fixed result, optionally after a delay
type stubAdapter struct {
	name     string
	articles []RawArticle
	delay    time.Duration
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Fetch(ctx context.Context) []RawArticle {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil
		}
	}
	return s.articles
}

func ts(t *testing.T, value string) *time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return &parsed
}

func TestFetchAllDedupesByURL(t *testing.T) {
	shared := "https://example.com/article-1"
	agg := NewAggregator([]Adapter{
		&stubAdapter{name: "a", articles: []RawArticle{
			{Title: "From A", URL: shared, Source: "a", PublishedAt: ts(t, "2026-08-01T10:00:00Z")},
		}},
		&stubAdapter{name: "b", articles: []RawArticle{
			{Title: "From B", URL: shared, Source: "b", PublishedAt: ts(t, "2026-08-02T10:00:00Z")},
			{Title: "Unique", URL: "https://example.com/article-2", Source: "b"},
		}},
	})

	result := agg.FetchAll(context.Background())

	count := 0
	for _, article := range result {
		if article.URL == shared {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one entry for %s, got %d", shared, count)
	}
	if len(result) != 2 {
		t.Errorf("expected 2 merged articles, got %d", len(result))
	}
}

func TestFetchAllSortsByPublishTimeDescending(t *testing.T) {
	agg := NewAggregator([]Adapter{
		&stubAdapter{name: "a", articles: []RawArticle{
			{Title: "old", URL: "https://example.com/old", PublishedAt: ts(t, "2026-08-01T00:00:00Z")},
			{Title: "undated", URL: "https://example.com/undated"},
			{Title: "new", URL: "https://example.com/new", PublishedAt: ts(t, "2026-08-20T00:00:00Z")},
		}},
	})

	result := agg.FetchAll(context.Background())
	if len(result) != 3 {
		t.Fatalf("expected 3 articles, got %d", len(result))
	}
	if result[0].Title != "new" || result[1].Title != "old" || result[2].Title != "undated" {
		t.Errorf("unexpected order: %q, %q, %q", result[0].Title, result[1].Title, result[2].Title)
	}
}

func TestFetchAllSlowAdapterTimesOut(t *testing.T) {
	agg := NewAggregatorWithTimeout([]Adapter{
		&stubAdapter{name: "slow", delay: 500 * time.Millisecond, articles: []RawArticle{
			{Title: "late", URL: "https://example.com/late"},
		}},
		&stubAdapter{name: "fast", articles: []RawArticle{
			{Title: "on time", URL: "https://example.com/on-time"},
		}},
	}, 50*time.Millisecond)

	start := time.Now()
	result := agg.FetchAll(context.Background())
	elapsed := time.Since(start)

	if elapsed > 300*time.Millisecond {
		t.Errorf("aggregator waited past the adapter timeout: %v", elapsed)
	}
	if len(result) != 1 || result[0].Title != "on time" {
		t.Errorf("expected only the fast adapter's article, got %+v", result)
	}
}

func TestFetchAllEmptyIsNotAnError(t *testing.T) {
	agg := NewAggregator([]Adapter{
		&stubAdapter{name: "empty"},
	})
	if result := agg.FetchAll(context.Background()); len(result) != 0 {
		t.Errorf("expected empty result, got %d articles", len(result))
	}
}

func TestFetchAllSkipsArticlesWithoutURL(t *testing.T) {
	agg := NewAggregator([]Adapter{
		&stubAdapter{name: "a", articles: []RawArticle{
			{Title: "no url"},
			{Title: "ok", URL: "https://example.com/ok"},
		}},
	})
	result := agg.FetchAll(context.Background())
	if len(result) != 1 || result[0].Title != "ok" {
		t.Errorf("expected only the article with a URL, got %+v", result)
	}
}
