package handlers

import (
	"net/http"
	"time"

	"skywatch/internal/auth"
	"skywatch/internal/models"
	"skywatch/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminHandler serves the operator endpoints. The routes sit behind HTTP
// basic auth configured in main; this is the only place credibility priors
// can be changed.
type AdminHandler struct {
	db            *gorm.DB
	workerService *worker.WorkerService
	tokens        *auth.TokenService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, workerService *worker.WorkerService, tokens *auth.TokenService) *AdminHandler {
	return &AdminHandler{
		db:            db,
		workerService: workerService,
		tokens:        tokens,
	}
}

// Dashboard handles GET /admin/dashboard with row counts per table
func (h *AdminHandler) Dashboard(c *gin.Context) {
	var articleCount, sourceCount, claimCount, contradictionCount, notificationCount, userCount int64

	h.db.Model(&models.Article{}).Count(&articleCount)
	h.db.Model(&models.Source{}).Count(&sourceCount)
	h.db.Model(&models.Claim{}).Count(&claimCount)
	h.db.Model(&models.Contradiction{}).Count(&contradictionCount)
	h.db.Model(&models.Notification{}).Count(&notificationCount)
	h.db.Model(&models.User{}).Count(&userCount)

	var unanalyzed int64
	h.db.Model(&models.Article{}).Where("is_analyzed = ?", false).Count(&unanalyzed)

	c.JSON(http.StatusOK, gin.H{
		"articles":       articleCount,
		"sources":        sourceCount,
		"claims":         claimCount,
		"contradictions": contradictionCount,
		"notifications":  notificationCount,
		"users":          userCount,
		"unanalyzed":     unanalyzed,
		"worker":         h.workerService.GetStatus(),
	})
}

// priorRequest is the PUT /admin/sources/:id/prior payload
type priorRequest struct {
	CredibilityScore *float64 `json:"credibility_score" binding:"required"`
}

// UpdateSourcePrior handles PUT /admin/sources/:id/prior
func (h *AdminHandler) UpdateSourcePrior(c *gin.Context) {
	sourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid source ID format",
		})
		return
	}

	var req priorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	score := *req.CredibilityScore
	if score < 0 || score > 1 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Credibility score must be between 0 and 1",
		})
		return
	}

	result := h.db.Model(&models.Source{}).Where("id = ?", sourceID).
		Update("credibility_score", score)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update source",
			"details": result.Error.Error(),
		})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Source not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "credibility_score": score})
}

// TriggerIngestion handles POST /admin/ingest. The cycle runs in the
// background; an already-running cycle makes this a no-op.
func (h *AdminHandler) TriggerIngestion(c *gin.Context) {
	go h.workerService.RunIngestionNow()
	c.JSON(http.StatusAccepted, gin.H{
		"message": "Collection cycle triggered",
	})
}

// tokenRequest is the POST /admin/tokens payload
type tokenRequest struct {
	Handle string `json:"handle" binding:"required"`
}

// IssueToken handles POST /admin/tokens: creates the user if needed and
// returns a bearer token for them
func (h *AdminHandler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	var user models.User
	err := h.db.Where("handle = ?", req.Handle).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		user = models.User{ID: uuid.New(), Handle: req.Handle}
		err = h.db.Create(&user).Error
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to resolve user",
			"details": err.Error(),
		})
		return
	}

	token, err := h.tokens.Issue(user.ID, 30*24*time.Hour)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to issue token",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": user.ID,
		"handle":  user.Handle,
		"token":   token,
	})
}
