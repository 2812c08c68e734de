package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is the topic bucket assigned to an article at ingestion time
type Category string

const (
	CategoryScientificDiscovery      Category = "scientific_discovery"
	CategoryTrajectory               Category = "trajectory"
	CategoryComposition              Category = "composition"
	CategoryActivity                 Category = "activity"
	CategorySpeculation              Category = "speculation"
	CategoryDebunking                Category = "debunking"
	CategoryGovernmentStatement      Category = "government_statement"
	CategoryInternationalPerspective Category = "international_perspective"
	CategoryTimelineEvent            Category = "timeline_event"
	CategoryOther                    Category = "other"
)

// AllCategories lists every valid category value
func AllCategories() []Category {
	return []Category{
		CategoryScientificDiscovery,
		CategoryTrajectory,
		CategoryComposition,
		CategoryActivity,
		CategorySpeculation,
		CategoryDebunking,
		CategoryGovernmentStatement,
		CategoryInternationalPerspective,
		CategoryTimelineEvent,
		CategoryOther,
	}
}

// IsValid reports whether c is one of the known categories
func (c Category) IsValid() bool {
	for _, known := range AllCategories() {
		if c == known {
			return true
		}
	}
	return false
}

// Article represents one collected news item. The URL is the canonical identity:
// at most one row per URL, enforced by the unique index. CredibilityScore is
// computed once when the article is ingested and never recomputed.
type Article struct {
	ID               uuid.UUID  `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	URL              string     `json:"url" db:"url" gorm:"uniqueIndex;not null"` // Canonical URL
	Title            string     `json:"title" db:"title"`
	Description      string     `json:"description" db:"description" gorm:"type:text"`
	Content          string     `json:"content" db:"content" gorm:"type:text"`
	SourceID         uuid.UUID  `json:"source_id" db:"source_id" gorm:"type:uuid;index"`
	Category         Category   `json:"category" db:"category" gorm:"default:'other';index"`
	CredibilityScore float64    `json:"credibility_score" db:"credibility_score" gorm:"default:0.5"`
	IsAnalyzed       bool       `json:"is_analyzed" db:"is_analyzed" gorm:"default:false;index"`
	PublishedAt      *time.Time `json:"published_at" db:"published_at"`
	FetchedAt        time.Time  `json:"fetched_at" db:"fetched_at"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Source Source  `json:"source,omitempty" gorm:"foreignKey:SourceID"`
	Claims []Claim `json:"claims,omitempty" gorm:"foreignKey:ArticleID"`
}

// TableName sets the table name for the Article model
func (Article) TableName() string {
	return "articles"
}
