package models

import (
	"time"

	"github.com/google/uuid"
)

// NotificationPreference holds one user's delivery settings. The category and
// severity filters are JSON-encoded string arrays; an empty string means no
// filtering is configured. Parsing into typed sets happens at the store
// boundary (see internal/notifications), not here.
type NotificationPreference struct {
	ID     uuid.UUID `json:"id" db:"id" gorm:"primaryKey;type:uuid"`
	UserID uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;uniqueIndex;not null"`

	EnableToastNotifications bool `json:"enable_toast_notifications" db:"enable_toast_notifications" gorm:"default:true"`
	EnableNotificationCenter bool `json:"enable_notification_center" db:"enable_notification_center" gorm:"default:true"`

	// Per-type toggles
	EnableNewArticles    bool `json:"enable_new_articles" db:"enable_new_articles" gorm:"default:true"`
	EnableAlerts         bool `json:"enable_alerts" db:"enable_alerts" gorm:"default:true"`
	EnableContradictions bool `json:"enable_contradictions" db:"enable_contradictions" gorm:"default:true"`
	EnableSourceUpdates  bool `json:"enable_source_updates" db:"enable_source_updates" gorm:"default:true"`

	// JSON-encoded allow-lists, e.g. ["trajectory","debunking"]
	CategoryFilter string `json:"category_filter" db:"category_filter" gorm:"type:text"`
	SeverityFilter string `json:"severity_filter" db:"severity_filter" gorm:"type:text"`

	// Quiet hours, HH:MM local time-of-day strings
	DoNotDisturbEnabled bool   `json:"do_not_disturb_enabled" db:"do_not_disturb_enabled" gorm:"default:false"`
	DoNotDisturbStart   string `json:"do_not_disturb_start" db:"do_not_disturb_start" gorm:"default:'22:00'"`
	DoNotDisturbEnd     string `json:"do_not_disturb_end" db:"do_not_disturb_end" gorm:"default:'08:00'"`

	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"autoUpdateTime"`
}

// TableName sets the table name for the NotificationPreference model
func (NotificationPreference) TableName() string {
	return "notification_preferences"
}
