// Package sources holds the static catalog of known publishers and their
// credibility priors.
package sources

import (
	"errors"
	"fmt"
	"log"
	"time"

	"skywatch/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry describes one known source: its identity, type and credibility prior.
// Priors are admin-set values; the ingestion pipeline never rewrites them.
type Entry struct {
	Name  string
	URL   string
	Type  models.SourceType
	Prior float64
}

// Defaults returns the built-in source catalog
func Defaults() []Entry {
	return []Entry{
		{Name: "NASA", URL: "https://www.nasa.gov", Type: models.SourceTypeOfficialAgency, Prior: 0.95},
		{Name: "ESA", URL: "https://www.esa.int", Type: models.SourceTypeOfficialAgency, Prior: 0.95},
		{Name: "Minor Planet Center", URL: "https://www.minorplanetcenter.net", Type: models.SourceTypeOfficialAgency, Prior: 0.95},
		{Name: "arXiv", URL: "https://arxiv.org", Type: models.SourceTypePeerReviewed, Prior: 0.90},
		{Name: "Spaceflight News", URL: "https://spaceflightnewsapi.net", Type: models.SourceTypeNewsOutlet, Prior: 0.80},
		{Name: "Sky & Telescope", URL: "https://skyandtelescope.org", Type: models.SourceTypeScientificBlog, Prior: 0.85},
		{Name: "Space.com", URL: "https://www.space.com", Type: models.SourceTypeNewsOutlet, Prior: 0.75},
		{Name: "Astronomy Now", URL: "https://astronomynow.com", Type: models.SourceTypeNewsOutlet, Prior: 0.75},
		{Name: "Metabunk", URL: "https://www.metabunk.org", Type: models.SourceTypeSkepticAnalysis, Prior: 0.70},
		{Name: "Reddit r/astronomy", URL: "https://www.reddit.com/r/astronomy", Type: models.SourceTypeSocialMedia, Prior: 0.40},
	}
}

// Registry is the catalog of known sources
type Registry struct {
	entries []Entry
}

// NewRegistry creates a registry from the given entries, falling back to the
// built-in catalog when none are provided
func NewRegistry(entries []Entry) *Registry {
	if len(entries) == 0 {
		entries = Defaults()
	}
	return &Registry{entries: entries}
}

// Entries returns the catalog entries
func (r *Registry) Entries() []Entry {
	return r.entries
}

// Ensure makes sure every catalog entry exists in the store. Upsert is by
// name and create-only: rows that already exist are left untouched so that
// admin-adjusted priors survive every cycle.
func (r *Registry) Ensure(db *gorm.DB) error {
	for _, entry := range r.entries {
		var existing models.Source
		err := db.Where("name = ?", entry.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up source %q: %w", entry.Name, err)
		}

		source := models.Source{
			ID:               uuid.New(),
			Name:             entry.Name,
			URL:              entry.URL,
			SourceType:       entry.Type,
			CredibilityScore: entry.Prior,
			IsActive:         true,
		}
		if err := db.Create(&source).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				// Lost a race with a concurrent cycle; the row exists, which
				// is all Ensure guarantees.
				continue
			}
			return fmt.Errorf("failed to create source %q: %w", entry.Name, err)
		}
		log.Printf("Registered source %q (%s, prior %.2f)", entry.Name, entry.Type, entry.Prior)
	}
	return nil
}

// Touch records that a source produced articles during a collection cycle
func Touch(db *gorm.DB, sourceID uuid.UUID, articles int) error {
	now := time.Now()
	return db.Model(&models.Source{}).
		Where("id = ?", sourceID).
		Updates(map[string]interface{}{
			"last_seen_at":  &now,
			"article_count": gorm.Expr("article_count + ?", articles),
		}).Error
}
