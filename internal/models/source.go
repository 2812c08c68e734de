package models

import (
	"time"

	"github.com/google/uuid"
)

// SourceType classifies where a source sits on the publishing spectrum
type SourceType string

const (
	SourceTypeOfficialAgency  SourceType = "official_agency"
	SourceTypePeerReviewed    SourceType = "peer_reviewed"
	SourceTypeNewsOutlet      SourceType = "news_outlet"
	SourceTypeScientificBlog  SourceType = "scientific_blog"
	SourceTypeSocialMedia     SourceType = "social_media"
	SourceTypeSkepticAnalysis SourceType = "skeptic_analysis"
	SourceTypeGovernment      SourceType = "government"
	SourceTypeOther           SourceType = "other"
)

// IsValid reports whether st is one of the known source types
func (st SourceType) IsValid() bool {
	switch st {
	case SourceTypeOfficialAgency, SourceTypePeerReviewed, SourceTypeNewsOutlet,
		SourceTypeScientificBlog, SourceTypeSocialMedia, SourceTypeSkepticAnalysis,
		SourceTypeGovernment, SourceTypeOther:
		return true
	}
	return false
}

// Source represents a publisher of articles about the tracked object.
// CredibilityScore is a static prior: the ingestion pipeline reads it but never
// rewrites it once the row exists. Only the admin endpoint mutates it.
type Source struct {
	ID               uuid.UUID  `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	Name             string     `json:"name" db:"name" gorm:"uniqueIndex;not null"`
	URL              string     `json:"url" db:"url"`
	SourceType       SourceType `json:"source_type" db:"source_type" gorm:"default:'other'"`
	CredibilityScore float64    `json:"credibility_score" db:"credibility_score" gorm:"default:0.5"`
	IsActive         bool       `json:"is_active" db:"is_active" gorm:"default:true"`
	LastSeenAt       *time.Time `json:"last_seen_at" db:"last_seen_at"`
	ArticleCount     int        `json:"article_count" db:"article_count" gorm:"default:0"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time  `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Articles []Article `json:"articles,omitempty" gorm:"foreignKey:SourceID"`
}

// TableName sets the table name for the Source model
func (Source) TableName() string {
	return "sources"
}
