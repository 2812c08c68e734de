package fetch

import (
	"context"
	"log"

	"github.com/mmcdole/gofeed"
)

// RSSAdapter fetches an RSS or Atom feed and keeps the items that mention
// the tracked object. It backs the NASA and Sky & Telescope providers and
// any other plain feed source.
type RSSAdapter struct {
	name    string
	feedURL string
	aliases []string
	parser  *gofeed.Parser
}

// NewRSSAdapter creates an adapter for one feed. aliases are the names the
// tracked object goes by in coverage (e.g. "3I/ATLAS", "interstellar comet").
func NewRSSAdapter(name, feedURL string, aliases []string) *RSSAdapter {
	return &RSSAdapter{
		name:    name,
		feedURL: feedURL,
		aliases: aliases,
		parser:  gofeed.NewParser(),
	}
}

// Name returns the provider display name
func (a *RSSAdapter) Name() string {
	return a.name
}

// Fetch parses the feed and returns matching items. Any failure yields nil.
func (a *RSSAdapter) Fetch(ctx context.Context) []RawArticle {
	feed, err := a.parser.ParseURLWithContext(a.feedURL, ctx)
	if err != nil {
		log.Printf("fetch: %s feed error: %v", a.name, err)
		return nil
	}

	var articles []RawArticle
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		description := StripHTML(item.Description)
		if !matchesObject(item.Title+" "+description, a.aliases) {
			continue
		}
		articles = append(articles, RawArticle{
			Title:       item.Title,
			Description: description,
			URL:         item.Link,
			Source:      a.name,
			PublishedAt: item.PublishedParsed,
			Content:     StripHTML(item.Content),
		})
	}
	return articles
}
