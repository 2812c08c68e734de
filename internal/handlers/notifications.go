package handlers

import (
	"net/http"
	"time"

	"skywatch/internal/models"
	"skywatch/internal/notifications"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationsHandler serves the per-user notification endpoints. All
// routes sit behind the token middleware, which puts the caller's user ID
// in the gin context.
type NotificationsHandler struct {
	service *notifications.Service
}

// NewNotificationsHandler creates a new notifications handler
func NewNotificationsHandler(service *notifications.Service) *NotificationsHandler {
	return &NotificationsHandler{service: service}
}

// currentUser extracts the authenticated user ID from the context
func currentUser(c *gin.Context) (uuid.UUID, bool) {
	userIDStr := c.GetString("user_id")
	if userIDStr == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User authentication required",
		})
		return uuid.Nil, false
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid user ID format",
		})
		return uuid.Nil, false
	}
	return userID, true
}

// List handles GET /api/notifications
func (h *NotificationsHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	unreadOnly := c.DefaultQuery("unread", "false") == "true"
	limit, _ := pagination(c)

	rows, err := h.service.List(userID, unreadOnly, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve notifications",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": rows})
}

// RecentAlerts handles GET /api/alerts
func (h *NotificationsHandler) RecentAlerts(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	limit, _ := pagination(c)
	rows, err := h.service.RecentAlerts(userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve alerts",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": rows})
}

// createRequest is the POST /api/notifications payload
type createRequest struct {
	Type      string     `json:"type" binding:"required"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Category  string     `json:"category"`
	Severity  string     `json:"severity"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// Create handles POST /api/notifications. Each approved call creates a new
// row; the filter engine may refuse the candidate, which reports as
// delivered=false with no row stored.
func (h *NotificationsHandler) Create(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	notificationType := models.NotificationType(req.Type)
	if !notificationType.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown notification type",
		})
		return
	}

	notification, delivered, err := h.service.Create(notifications.CreateRequest{
		UserID:    userID,
		Type:      notificationType,
		Title:     req.Title,
		Message:   req.Message,
		Category:  req.Category,
		Severity:  req.Severity,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create notification",
			"details": err.Error(),
		})
		return
	}

	if !delivered {
		c.JSON(http.StatusOK, gin.H{"delivered": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"delivered": true, "notification": notification})
}

// MarkRead handles POST /api/notifications/:id/read
func (h *NotificationsHandler) MarkRead(c *gin.Context) {
	h.flag(c, h.service.MarkRead)
}

// Dismiss handles POST /api/notifications/:id/dismiss
func (h *NotificationsHandler) Dismiss(c *gin.Context) {
	h.flag(c, h.service.Dismiss)
}

// flag shares the id-parsing and error mapping of the two idempotent
// flag-setting endpoints
func (h *NotificationsHandler) flag(c *gin.Context, op func(userID, notificationID uuid.UUID) error) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid notification ID format",
		})
		return
	}

	if err := op(userID, notificationID); err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Notification not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update notification",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetPreferences handles GET /api/notifications/preferences
func (h *NotificationsHandler) GetPreferences(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	prefs, err := h.service.GetPreferences(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve preferences",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}

// preferenceRequest is the PUT /api/notifications/preferences payload;
// absent fields are left unchanged
type preferenceRequest struct {
	EnableToastNotifications *bool   `json:"enable_toast_notifications"`
	EnableNotificationCenter *bool   `json:"enable_notification_center"`
	EnableNewArticles        *bool   `json:"enable_new_articles"`
	EnableAlerts             *bool   `json:"enable_alerts"`
	EnableContradictions     *bool   `json:"enable_contradictions"`
	EnableSourceUpdates      *bool   `json:"enable_source_updates"`
	CategoryFilter           *string `json:"category_filter"`
	SeverityFilter           *string `json:"severity_filter"`
	DoNotDisturbEnabled      *bool   `json:"do_not_disturb_enabled"`
	DoNotDisturbStart        *string `json:"do_not_disturb_start"`
	DoNotDisturbEnd          *string `json:"do_not_disturb_end"`
}

// UpdatePreferences handles PUT /api/notifications/preferences
func (h *NotificationsHandler) UpdatePreferences(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req preferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	prefs, err := h.service.UpdatePreferences(userID, notifications.PreferenceUpdate{
		EnableToastNotifications: req.EnableToastNotifications,
		EnableNotificationCenter: req.EnableNotificationCenter,
		EnableNewArticles:        req.EnableNewArticles,
		EnableAlerts:             req.EnableAlerts,
		EnableContradictions:     req.EnableContradictions,
		EnableSourceUpdates:      req.EnableSourceUpdates,
		CategoryFilter:           req.CategoryFilter,
		SeverityFilter:           req.SeverityFilter,
		DoNotDisturbEnabled:      req.DoNotDisturbEnabled,
		DoNotDisturbStart:        req.DoNotDisturbStart,
		DoNotDisturbEnd:          req.DoNotDisturbEnd,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update preferences",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"preferences": prefs})
}
