package models

import (
	"time"

	"github.com/google/uuid"
)

// ClaimType classifies what kind of assertion a claim makes
type ClaimType string

const (
	ClaimTypeObservation    ClaimType = "observation"
	ClaimTypeMeasurement    ClaimType = "measurement"
	ClaimTypePrediction     ClaimType = "prediction"
	ClaimTypeInterpretation ClaimType = "interpretation"
	ClaimTypeSpeculation    ClaimType = "speculation"
	ClaimTypeAttribution    ClaimType = "attribution"
	ClaimTypeRefutation     ClaimType = "refutation"
	ClaimTypeOther          ClaimType = "other"
)

// IsValid reports whether ct is one of the known claim types
func (ct ClaimType) IsValid() bool {
	switch ct {
	case ClaimTypeObservation, ClaimTypeMeasurement, ClaimTypePrediction,
		ClaimTypeInterpretation, ClaimTypeSpeculation, ClaimTypeAttribution,
		ClaimTypeRefutation, ClaimTypeOther:
		return true
	}
	return false
}

// VerificationStatus tracks how a claim has held up against other evidence
type VerificationStatus string

const (
	VerificationUnverified   VerificationStatus = "unverified"
	VerificationSupported    VerificationStatus = "supported"
	VerificationContradicted VerificationStatus = "contradicted"
	VerificationDebunked     VerificationStatus = "debunked"
	VerificationInconclusive VerificationStatus = "inconclusive"
)

// Claim is a single factual assertion extracted from an article by the
// analysis engine. Many claims may belong to one article.
type Claim struct {
	ID                 uuid.UUID          `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	ArticleID          uuid.UUID          `json:"article_id" db:"article_id" gorm:"type:uuid;index;not null"`
	Content            string             `json:"content" db:"content" gorm:"type:text;not null"`
	ClaimType          ClaimType          `json:"claim_type" db:"claim_type" gorm:"default:'other'"`
	Confidence         float64            `json:"confidence" db:"confidence" gorm:"default:0.5"`
	VerificationStatus VerificationStatus `json:"verification_status" db:"verification_status" gorm:"default:'unverified'"`
	CreatedAt          time.Time          `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time          `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Article Article `json:"article,omitempty" gorm:"foreignKey:ArticleID"`
}

// TableName sets the table name for the Claim model
func (Claim) TableName() string {
	return "claims"
}
