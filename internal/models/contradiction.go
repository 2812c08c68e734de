package models

import (
	"time"

	"github.com/google/uuid"
)

// ContradictionLevel grades how severely two claims conflict
type ContradictionLevel string

const (
	ContradictionMinor    ContradictionLevel = "minor"
	ContradictionModerate ContradictionLevel = "moderate"
	ContradictionMajor    ContradictionLevel = "major"
	ContradictionCritical ContradictionLevel = "critical"
)

// IsValid reports whether cl is one of the known contradiction levels
func (cl ContradictionLevel) IsValid() bool {
	switch cl {
	case ContradictionMinor, ContradictionModerate, ContradictionMajor, ContradictionCritical:
		return true
	}
	return false
}

// ResolutionStatus tracks the review state of a detected contradiction
type ResolutionStatus string

const (
	ResolutionUnresolved  ResolutionStatus = "unresolved"
	ResolutionUnderReview ResolutionStatus = "under_review"
	ResolutionResolved    ResolutionStatus = "resolved"
	ResolutionDismissed   ResolutionStatus = "dismissed"
)

// Contradiction records a conflict detected between two claims. The pair is
// unordered; ClaimAID/ClaimBID carry whichever order the comparison ran in.
type Contradiction struct {
	ID               uuid.UUID          `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	ClaimAID         uuid.UUID          `json:"claim_a_id" db:"claim_a_id" gorm:"type:uuid;index;not null"`
	ClaimBID         uuid.UUID          `json:"claim_b_id" db:"claim_b_id" gorm:"type:uuid;index;not null"`
	Level            ContradictionLevel `json:"level" db:"level"`
	Explanation      string             `json:"explanation" db:"explanation" gorm:"type:text"`
	ResolutionStatus ResolutionStatus   `json:"resolution_status" db:"resolution_status" gorm:"default:'unresolved'"`
	CreatedAt        time.Time          `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt        time.Time          `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	ClaimA Claim `json:"claim_a,omitempty" gorm:"foreignKey:ClaimAID"`
	ClaimB Claim `json:"claim_b,omitempty" gorm:"foreignKey:ClaimBID"`
}

// TableName sets the table name for the Contradiction model
func (Contradiction) TableName() string {
	return "contradictions"
}
