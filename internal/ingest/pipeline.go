// Package ingest orchestrates one collection cycle: fetch, classify, score
// and persist.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"skywatch/internal/classify"
	"skywatch/internal/fetch"
	"skywatch/internal/models"
	"skywatch/internal/scoring"
	"skywatch/internal/sources"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// autoCreatePrior is the credibility prior given to sources discovered in
// fetched articles that are not in the registry
const autoCreatePrior = 0.75

// Fetcher is the slice of the aggregator the pipeline needs
type Fetcher interface {
	FetchAll(ctx context.Context) []fetch.RawArticle
}

// Pipeline runs collection cycles against the store
type Pipeline struct {
	db       *gorm.DB
	fetcher  Fetcher
	registry *sources.Registry
}

// NewPipeline creates an ingestion pipeline
func NewPipeline(db *gorm.DB, fetcher Fetcher, registry *sources.Registry) *Pipeline {
	return &Pipeline{
		db:       db,
		fetcher:  fetcher,
		registry: registry,
	}
}

// RunCycle executes one full collection cycle and returns how many new
// articles were inserted. A cycle that fetches nothing is a successful
// no-op. Failures on individual articles are logged and skipped so one bad
// record never aborts the batch.
func (p *Pipeline) RunCycle(ctx context.Context) (int, error) {
	if err := p.registry.Ensure(p.db); err != nil {
		return 0, fmt.Errorf("failed to ensure source registry: %w", err)
	}

	raw := p.fetcher.FetchAll(ctx)
	if len(raw) == 0 {
		log.Println("Collection cycle fetched no articles")
		return 0, nil
	}

	inserted := 0
	perSource := make(map[uuid.UUID]int)
	for _, article := range raw {
		sourceID, created, err := p.ingestOne(article)
		if err != nil {
			log.Printf("Failed to ingest %s: %v", article.URL, err)
			continue
		}
		if created {
			inserted++
			perSource[sourceID]++
		}
	}

	for sourceID, count := range perSource {
		if err := sources.Touch(p.db, sourceID, count); err != nil {
			log.Printf("Failed to update source activity: %v", err)
		}
	}

	log.Printf("Collection cycle complete: %d fetched, %d inserted", len(raw), inserted)
	return inserted, nil
}

// ingestOne classifies, scores and stores a single raw article. It reports
// whether a new row was created; an already-known URL is a silent skip.
func (p *Pipeline) ingestOne(raw fetch.RawArticle) (uuid.UUID, bool, error) {
	source, err := p.resolveSource(raw.Source)
	if err != nil {
		return uuid.Nil, false, err
	}

	category := classify.Categorize(raw.Title, raw.Description)
	score := scoring.Score(source.CredibilityScore, category)

	var existing models.Article
	err = p.db.Where("url = ?", raw.URL).First(&existing).Error
	if err == nil {
		return source.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, false, fmt.Errorf("failed to check for existing article: %w", err)
	}

	article := models.Article{
		ID:               uuid.New(),
		URL:              raw.URL,
		Title:            raw.Title,
		Description:      raw.Description,
		Content:          raw.Content,
		SourceID:         source.ID,
		Category:         category,
		CredibilityScore: score,
		IsAnalyzed:       false,
		PublishedAt:      raw.PublishedAt,
		FetchedAt:        time.Now(),
	}
	if err := p.db.Create(&article).Error; err != nil {
		// Another cycle may have inserted the same URL between the lookup
		// and the create. The unique index is the authoritative guard and
		// losing that race is a skip, not a failure.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return source.ID, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("failed to insert article: %w", err)
	}

	return source.ID, true, nil
}

// resolveSource finds the provider's source row by name, auto-creating an
// inactive-registry source with default prior when no match exists
func (p *Pipeline) resolveSource(name string) (*models.Source, error) {
	if name == "" {
		name = "Unknown"
	}

	var source models.Source
	err := p.db.Where("name = ?", name).First(&source).Error
	if err == nil {
		return &source, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up source %q: %w", name, err)
	}

	source = models.Source{
		ID:               uuid.New(),
		Name:             name,
		SourceType:       models.SourceTypeNewsOutlet,
		CredibilityScore: autoCreatePrior,
		IsActive:         true,
	}
	if err := p.db.Create(&source).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent cycle created it first; read it back.
			if lookupErr := p.db.Where("name = ?", name).First(&source).Error; lookupErr == nil {
				return &source, nil
			}
		}
		return nil, fmt.Errorf("failed to auto-create source %q: %w", name, err)
	}
	log.Printf("Auto-created source %q with default prior %.2f", name, autoCreatePrior)

	return &source, nil
}
