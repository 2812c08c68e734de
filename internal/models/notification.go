package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies what kind of event a notification describes
type NotificationType string

const (
	NotificationArticleNew         NotificationType = "article_new"
	NotificationAlertTriggered     NotificationType = "alert_triggered"
	NotificationContradictionFound NotificationType = "contradiction_found"
	NotificationSourceUpdate       NotificationType = "source_update"
	NotificationAnalysisComplete   NotificationType = "analysis_complete"
	NotificationClaimVerified      NotificationType = "claim_verified"
	NotificationDigest             NotificationType = "digest"
	NotificationSystem             NotificationType = "system"
)

// IsValid reports whether nt is one of the known notification types
func (nt NotificationType) IsValid() bool {
	switch nt {
	case NotificationArticleNew, NotificationAlertTriggered, NotificationContradictionFound,
		NotificationSourceUpdate, NotificationAnalysisComplete, NotificationClaimVerified,
		NotificationDigest, NotificationSystem:
		return true
	}
	return false
}

// Severity grades how urgent a notification is
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Notification is a user-facing alert that passed the filter engine.
// IsRead and IsDismissed start false and only ever move to true.
type Notification struct {
	ID          uuid.UUID        `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	UserID      uuid.UUID        `json:"user_id" db:"user_id" gorm:"type:uuid;index;not null"`
	Type        NotificationType `json:"type" db:"type" gorm:"index"`
	Title       string           `json:"title" db:"title"`
	Message     string           `json:"message" db:"message" gorm:"type:text"`
	Category    string           `json:"category,omitempty" db:"category"`
	Severity    string           `json:"severity,omitempty" db:"severity"`
	IsRead      bool             `json:"is_read" db:"is_read" gorm:"default:false;index"`
	IsDismissed bool             `json:"is_dismissed" db:"is_dismissed" gorm:"default:false"`
	ExpiresAt   *time.Time       `json:"expires_at" db:"expires_at"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at" gorm:"autoCreateTime;index"`
}

// TableName sets the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}
