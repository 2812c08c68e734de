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

const newsAPIBaseURL = "https://newsapi.org/v2/everything"

// NewsAPIAdapter queries NewsAPI's everything endpoint. It is credential
// gated: without an API key every fetch returns empty.
type NewsAPIAdapter struct {
	baseURL string
	query   string
	apiKey  string
	client  *http.Client
}

// NewNewsAPIAdapter creates an adapter for the given object name and key
func NewNewsAPIAdapter(objectName, apiKey string) *NewsAPIAdapter {
	return &NewsAPIAdapter{
		baseURL: newsAPIBaseURL,
		query:   objectName,
		apiKey:  apiKey,
		client:  newHTTPClient(),
	}
}

// NewNewsAPIAdapterWithBaseURL is used by tests to point at a stub server
func NewNewsAPIAdapterWithBaseURL(baseURL, objectName, apiKey string) *NewsAPIAdapter {
	a := NewNewsAPIAdapter(objectName, apiKey)
	a.baseURL = baseURL
	return a
}

// Name returns the provider display name
func (a *NewsAPIAdapter) Name() string {
	return "NewsAPI"
}

// newsAPIResponse mirrors the everything payload
type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Content     string `json:"content"`
		Source      struct {
			Name string `json:"name"`
		} `json:"source"`
	} `json:"articles"`
}

// Fetch queries NewsAPI and normalizes the results. Missing credentials or
// any failure yields nil.
func (a *NewsAPIAdapter) Fetch(ctx context.Context) []RawArticle {
	if a.apiKey == "" {
		return nil
	}

	endpoint := fmt.Sprintf("%s?q=%s&sortBy=publishedAt&pageSize=50", a.baseURL, url.QueryEscape(`"`+a.query+`"`))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("fetch: newsapi request error: %v", err)
		return nil
	}
	req.Header.Set("X-Api-Key", a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		log.Printf("fetch: newsapi fetch error: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("fetch: newsapi returned HTTP %d", resp.StatusCode)
		return nil
	}

	var payload newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("fetch: newsapi decode error: %v", err)
		return nil
	}
	if payload.Status != "ok" {
		log.Printf("fetch: newsapi status %q", payload.Status)
		return nil
	}

	var articles []RawArticle
	for _, item := range payload.Articles {
		if item.URL == "" {
			continue
		}
		source := item.Source.Name
		if source == "" {
			source = "NewsAPI"
		}
		article := RawArticle{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.URL,
			Source:      source,
			Content:     item.Content,
		}
		if ts, err := time.Parse(time.RFC3339, item.PublishedAt); err == nil {
			article.PublishedAt = &ts
		}
		articles = append(articles, article)
	}
	return articles
}
