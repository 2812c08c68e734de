package fetch

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"
)

// DefaultAdapterTimeout caps how long one provider may take before its
// result is treated as empty
const DefaultAdapterTimeout = 10 * time.Second

// Aggregator fans out to every registered adapter, waits for all of them to
// settle and merges the results into one deduplicated, recency-sorted list.
type Aggregator struct {
	adapters []Adapter
	timeout  time.Duration
}

// NewAggregator creates an aggregator over the given adapters
func NewAggregator(adapters []Adapter) *Aggregator {
	return &Aggregator{
		adapters: adapters,
		timeout:  DefaultAdapterTimeout,
	}
}

// NewAggregatorWithTimeout creates an aggregator with a custom per-adapter
// timeout; used by tests to keep slow-adapter cases fast
func NewAggregatorWithTimeout(adapters []Adapter, timeout time.Duration) *Aggregator {
	return &Aggregator{
		adapters: adapters,
		timeout:  timeout,
	}
}

// FetchAll runs every adapter concurrently, each under its own timeout,
// joins on all of them, then dedupes by canonical URL (first seen wins) and
// sorts by publish time descending with unknown timestamps last. An empty
// result is a valid outcome, not an error.
func (a *Aggregator) FetchAll(ctx context.Context) []RawArticle {
	results := make([][]RawArticle, len(a.adapters))

	var wg sync.WaitGroup
	for i, adapter := range a.adapters {
		wg.Add(1)
		go func(i int, adapter Adapter) {
			defer wg.Done()
			adapterCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			done := make(chan []RawArticle, 1)
			go func() {
				done <- adapter.Fetch(adapterCtx)
			}()

			select {
			case articles := <-done:
				results[i] = articles
			case <-adapterCtx.Done():
				// Adapter overran its budget; its result is empty. The
				// goroutine above finishes on its own once the context
				// propagates.
				log.Printf("fetch: adapter %s timed out", adapter.Name())
			}
		}(i, adapter)
	}
	wg.Wait()

	// Merge with first-seen-wins dedup by canonical URL. Adapter order is
	// fixed at construction, so the merge is deterministic within one call.
	seen := make(map[string]bool)
	var merged []RawArticle
	for _, batch := range results {
		for _, article := range batch {
			if article.URL == "" || seen[article.URL] {
				continue
			}
			seen[article.URL] = true
			merged = append(merged, article)
		}
	}

	// Most recent first; articles without a parsable timestamp sort last.
	sort.SliceStable(merged, func(i, j int) bool {
		ti, tj := merged[i].PublishedAt, merged[j].PublishedAt
		if ti == nil {
			return false
		}
		if tj == nil {
			return true
		}
		return ti.After(*tj)
	})

	return merged
}
