package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"
)

const spaceflightBaseURL = "https://api.spaceflightnewsapi.net/v4/articles/"

// SpaceflightAdapter queries the Spaceflight News API v4 for articles
// mentioning the tracked object. The API needs no credentials.
type SpaceflightAdapter struct {
	baseURL string
	query   string
	client  *http.Client
}

// NewSpaceflightAdapter creates an adapter searching for the given object name
func NewSpaceflightAdapter(objectName string) *SpaceflightAdapter {
	return &SpaceflightAdapter{
		baseURL: spaceflightBaseURL,
		query:   objectName,
		client:  newHTTPClient(),
	}
}

// NewSpaceflightAdapterWithBaseURL is used by tests to point at a stub server
func NewSpaceflightAdapterWithBaseURL(baseURL, objectName string) *SpaceflightAdapter {
	a := NewSpaceflightAdapter(objectName)
	a.baseURL = baseURL
	return a
}

// Name returns the provider display name
func (a *SpaceflightAdapter) Name() string {
	return "Spaceflight News"
}

// spaceflightResponse mirrors the v4 list payload
type spaceflightResponse struct {
	Results []struct {
		Title       string `json:"title"`
		URL         string `json:"url"`
		Summary     string `json:"summary"`
		NewsSite    string `json:"news_site"`
		PublishedAt string `json:"published_at"`
	} `json:"results"`
}

// Fetch queries the API and normalizes the results. Any failure yields nil.
func (a *SpaceflightAdapter) Fetch(ctx context.Context) []RawArticle {
	endpoint := fmt.Sprintf("%s?search=%s&limit=50", a.baseURL, url.QueryEscape(a.query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("fetch: spaceflight request error: %v", err)
		return nil
	}

	resp, err := a.client.Do(req)
	if err != nil {
		log.Printf("fetch: spaceflight fetch error: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("fetch: spaceflight returned HTTP %d", resp.StatusCode)
		return nil
	}

	var payload spaceflightResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("fetch: spaceflight decode error: %v", err)
		return nil
	}

	var articles []RawArticle
	for _, result := range payload.Results {
		if result.URL == "" {
			continue
		}
		article := RawArticle{
			Title:       result.Title,
			Description: result.Summary,
			URL:         result.URL,
			Source:      "Spaceflight News",
		}
		if ts, err := time.Parse(time.RFC3339, result.PublishedAt); err == nil {
			article.PublishedAt = &ts
		}
		articles = append(articles, article)
	}
	return articles
}
