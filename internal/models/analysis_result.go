package models

import (
	"time"

	"github.com/google/uuid"
)

// AnalysisResult summarizes one claim-extraction run over an article:
// how many claims were produced, their type histogram (JSON-encoded
// map of claim type to count) and the mean confidence.
type AnalysisResult struct {
	ID             uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	ArticleID      uuid.UUID `json:"article_id" db:"article_id" gorm:"type:uuid;index;not null"`
	ClaimCount     int       `json:"claim_count" db:"claim_count" gorm:"default:0"`
	TypeHistogram  string    `json:"type_histogram" db:"type_histogram" gorm:"type:text"`
	MeanConfidence float64   `json:"mean_confidence" db:"mean_confidence" gorm:"default:0.0"`
	CreatedAt      time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
}

// TableName sets the table name for the AnalysisResult model
func (AnalysisResult) TableName() string {
	return "analysis_results"
}
