// Package fetch collects raw articles about the tracked object from
// external providers and merges them into one deduplicated set.
package fetch

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// RawArticle is the normalized record every adapter produces
type RawArticle struct {
	Title       string
	Description string
	URL         string // Canonical URL, the dedup key
	Source      string // Provider display name, resolved against the registry
	PublishedAt *time.Time
	Content     string
}

// Adapter fetches articles from one external provider. Implementations are
// fail-safe: network errors, missing credentials and malformed responses all
// produce an empty slice, never an error.
type Adapter interface {
	// Name returns the provider display name
	Name() string

	// Fetch returns the provider's current articles, or nil on any failure
	Fetch(ctx context.Context) []RawArticle
}

// newHTTPClient returns the HTTP client adapters share
func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 15 * time.Second,
	}
}

// matchesObject reports whether text mentions the tracked object under any
// of the given aliases
func matchesObject(text string, aliases []string) bool {
	lower := strings.ToLower(text)
	for _, alias := range aliases {
		if strings.Contains(lower, strings.ToLower(alias)) {
			return true
		}
	}
	return false
}
