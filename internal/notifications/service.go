package notifications

import (
	"errors"
	"fmt"
	"log"
	"time"

	"skywatch/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service persists notifications and preference rows. Creation runs every
// candidate through the filter engine first; refused candidates are simply
// not stored.
type Service struct {
	db  *gorm.DB
	hub *Hub
}

// NewService creates a notification service. hub may be nil when live
// delivery is not wanted (tests, CLI tools).
func NewService(db *gorm.DB, hub *Hub) *Service {
	return &Service{db: db, hub: hub}
}

// CreateRequest carries everything needed to create one notification
type CreateRequest struct {
	UserID    uuid.UUID
	Type      models.NotificationType
	Title     string
	Message   string
	Category  string
	Severity  string
	ExpiresAt *time.Time
}

// Create runs the filter decision for the user and, on approval, stores the
// notification and pushes it to the user's live connections. It returns the
// stored row and whether one was created; a filtered-out candidate is a
// (nil, false, nil) result, not an error.
func (s *Service) Create(req CreateRequest) (*models.Notification, bool, error) {
	prefs, err := s.loadPrefs(req.UserID)
	if err != nil {
		return nil, false, err
	}

	candidate := Candidate{
		Type:     req.Type,
		Category: req.Category,
		Severity: req.Severity,
	}
	if !ShouldDeliver(candidate, prefs, time.Now()) {
		return nil, false, nil
	}

	notification := models.Notification{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Category:  req.Category,
		Severity:  req.Severity,
		ExpiresAt: req.ExpiresAt,
	}
	if err := s.db.Create(&notification).Error; err != nil {
		return nil, false, fmt.Errorf("failed to store notification: %w", err)
	}

	if s.hub != nil {
		s.hub.Broadcast(req.UserID, &notification)
	}

	return &notification, true, nil
}

// loadPrefs returns the user's preference row, or nil when none exists
// (which the filter reads as fail-open)
func (s *Service) loadPrefs(userID uuid.UUID) (*Prefs, error) {
	var row models.NotificationPreference
	err := s.db.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	return PrefsFromModel(&row), nil
}

// List returns the user's visible notifications, newest first. Dismissed
// rows and rows past their expiry are excluded; read rows are included
// unless unreadOnly is set.
func (s *Service) List(userID uuid.UUID, unreadOnly bool, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := s.db.Where("user_id = ? AND is_dismissed = ?", userID, false).
		Where("expires_at IS NULL OR expires_at > ?", time.Now())
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}

	var rows []models.Notification
	if err := query.Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return rows, nil
}

// RecentAlerts returns the user's latest alert-type notifications
func (s *Service) RecentAlerts(userID uuid.UUID, limit int) ([]models.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var rows []models.Notification
	err := s.db.Where("user_id = ? AND type = ?", userID, models.NotificationAlertTriggered).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return rows, nil
}

// MarkRead flags a notification as read. Already-read rows are a no-op,
// which makes the operation naturally idempotent.
func (s *Service) MarkRead(userID, notificationID uuid.UUID) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Dismiss hides a notification from future listings. Idempotent like MarkRead.
func (s *Service) Dismiss(userID, notificationID uuid.UUID) error {
	result := s.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_dismissed", true)
	if result.Error != nil {
		return fmt.Errorf("failed to dismiss notification: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// GetPreferences returns the user's preference row, creating a default one
// on first access
func (s *Service) GetPreferences(userID uuid.UUID) (*models.NotificationPreference, error) {
	var row models.NotificationPreference
	err := s.db.Where("user_id = ?", userID).First(&row).Error
	if err == nil {
		return &row, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}

	row = defaultPreferences(userID)
	if err := s.db.Create(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Concurrent first access; read the winner back.
			if lookupErr := s.db.Where("user_id = ?", userID).First(&row).Error; lookupErr == nil {
				return &row, nil
			}
		}
		return nil, fmt.Errorf("failed to create default preferences: %w", err)
	}
	log.Printf("Created default notification preferences for %s", userID)
	return &row, nil
}

// PreferenceUpdate carries the mutable preference fields. Pointers
// distinguish "leave unchanged" from explicit values.
type PreferenceUpdate struct {
	EnableToastNotifications *bool
	EnableNotificationCenter *bool
	EnableNewArticles        *bool
	EnableAlerts             *bool
	EnableContradictions     *bool
	EnableSourceUpdates      *bool
	CategoryFilter           *string
	SeverityFilter           *string
	DoNotDisturbEnabled      *bool
	DoNotDisturbStart        *string
	DoNotDisturbEnd          *string
}

// UpdatePreferences applies the update to the user's preference row,
// creating it first when missing
func (s *Service) UpdatePreferences(userID uuid.UUID, update PreferenceUpdate) (*models.NotificationPreference, error) {
	row, err := s.GetPreferences(userID)
	if err != nil {
		return nil, err
	}

	changes := make(map[string]interface{})
	if update.EnableToastNotifications != nil {
		changes["enable_toast_notifications"] = *update.EnableToastNotifications
	}
	if update.EnableNotificationCenter != nil {
		changes["enable_notification_center"] = *update.EnableNotificationCenter
	}
	if update.EnableNewArticles != nil {
		changes["enable_new_articles"] = *update.EnableNewArticles
	}
	if update.EnableAlerts != nil {
		changes["enable_alerts"] = *update.EnableAlerts
	}
	if update.EnableContradictions != nil {
		changes["enable_contradictions"] = *update.EnableContradictions
	}
	if update.EnableSourceUpdates != nil {
		changes["enable_source_updates"] = *update.EnableSourceUpdates
	}
	if update.CategoryFilter != nil {
		changes["category_filter"] = *update.CategoryFilter
	}
	if update.SeverityFilter != nil {
		changes["severity_filter"] = *update.SeverityFilter
	}
	if update.DoNotDisturbEnabled != nil {
		changes["do_not_disturb_enabled"] = *update.DoNotDisturbEnabled
	}
	if update.DoNotDisturbStart != nil {
		changes["do_not_disturb_start"] = *update.DoNotDisturbStart
	}
	if update.DoNotDisturbEnd != nil {
		changes["do_not_disturb_end"] = *update.DoNotDisturbEnd
	}

	if len(changes) > 0 {
		if err := s.db.Model(row).Updates(changes).Error; err != nil {
			return nil, fmt.Errorf("failed to update preferences: %w", err)
		}
	}

	var updated models.NotificationPreference
	if err := s.db.Where("user_id = ?", userID).First(&updated).Error; err != nil {
		return nil, fmt.Errorf("failed to reload preferences: %w", err)
	}
	return &updated, nil
}

// defaultPreferences is the everything-on starting point for a new user
func defaultPreferences(userID uuid.UUID) models.NotificationPreference {
	return models.NotificationPreference{
		ID:                       uuid.New(),
		UserID:                   userID,
		EnableToastNotifications: true,
		EnableNotificationCenter: true,
		EnableNewArticles:        true,
		EnableAlerts:             true,
		EnableContradictions:     true,
		EnableSourceUpdates:      true,
		DoNotDisturbEnabled:      false,
		DoNotDisturbStart:        "22:00",
		DoNotDisturbEnd:          "08:00",
	}
}
