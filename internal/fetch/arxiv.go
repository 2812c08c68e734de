package fetch

import (
	"context"
	"fmt"
	"log"
	"net/url"

	"github.com/mmcdole/gofeed"
)

const arxivBaseURL = "http://export.arxiv.org/api/query"

// ArxivAdapter queries the arXiv Atom API for preprints about the object
type ArxivAdapter struct {
	baseURL string
	query   string
	parser  *gofeed.Parser
}

// NewArxivAdapter creates an adapter searching for the given object name
func NewArxivAdapter(objectName string) *ArxivAdapter {
	return &ArxivAdapter{
		baseURL: arxivBaseURL,
		query:   objectName,
		parser:  gofeed.NewParser(),
	}
}

// NewArxivAdapterWithBaseURL is used by tests to point at a stub server
func NewArxivAdapterWithBaseURL(baseURL, objectName string) *ArxivAdapter {
	a := NewArxivAdapter(objectName)
	a.baseURL = baseURL
	return a
}

// Name returns the provider display name
func (a *ArxivAdapter) Name() string {
	return "arXiv"
}

// Fetch queries arXiv and normalizes the entries. Any failure yields nil.
func (a *ArxivAdapter) Fetch(ctx context.Context) []RawArticle {
	endpoint := fmt.Sprintf(`%s?search_query=all:%s&sortBy=submittedDate&sortOrder=descending&max_results=25`,
		a.baseURL, url.QueryEscape(`"`+a.query+`"`))

	feed, err := a.parser.ParseURLWithContext(endpoint, ctx)
	if err != nil {
		log.Printf("fetch: arxiv error: %v", err)
		return nil
	}

	var articles []RawArticle
	for _, entry := range feed.Items {
		if entry == nil || entry.Link == "" {
			continue
		}
		articles = append(articles, RawArticle{
			Title:       entry.Title,
			Description: StripHTML(entry.Description),
			URL:         entry.Link,
			Source:      "arXiv",
			PublishedAt: entry.PublishedParsed,
		})
	}
	return articles
}
