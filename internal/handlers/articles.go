package handlers

import (
	"net/http"
	"strconv"

	"skywatch/internal/models"
	"skywatch/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ArticlesHandler serves the read-side article and source endpoints
type ArticlesHandler struct {
	db            *gorm.DB
	workerService *worker.WorkerService
}

// NewArticlesHandler creates a new articles handler
func NewArticlesHandler(db *gorm.DB, workerService *worker.WorkerService) *ArticlesHandler {
	return &ArticlesHandler{
		db:            db,
		workerService: workerService,
	}
}

// pagination parses limit/page query parameters with sane bounds
func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	if limit > 100 {
		limit = 100
	}
	if limit < 1 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// GetLatest handles GET /api/articles
func (h *ArticlesHandler) GetLatest(c *gin.Context) {
	limit, offset := pagination(c)

	var articles []models.Article
	err := h.db.Preload("Source").
		Order("published_at DESC NULLS LAST, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve articles",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GetByCategory handles GET /api/articles/category/:category
func (h *ArticlesHandler) GetByCategory(c *gin.Context) {
	category := models.Category(c.Param("category"))
	if !category.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Unknown category",
		})
		return
	}

	limit, offset := pagination(c)

	var articles []models.Article
	err := h.db.Preload("Source").
		Where("category = ?", category).
		Order("published_at DESC NULLS LAST, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve articles",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles, "category": category})
}

// GetBySource handles GET /api/articles/source/:id
func (h *ArticlesHandler) GetBySource(c *gin.Context) {
	sourceID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid source ID format",
		})
		return
	}

	limit, offset := pagination(c)

	var articles []models.Article
	err = h.db.Where("source_id = ?", sourceID).
		Order("published_at DESC NULLS LAST, created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&articles).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve articles",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"articles": articles})
}

// GetClaims handles GET /api/articles/:id/claims
func (h *ArticlesHandler) GetClaims(c *gin.Context) {
	articleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid article ID format",
		})
		return
	}

	var claims []models.Claim
	if err := h.db.Where("article_id = ?", articleID).Find(&claims).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve claims",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"claims": claims})
}

// GetContradictions handles GET /api/contradictions
func (h *ArticlesHandler) GetContradictions(c *gin.Context) {
	limit, offset := pagination(c)

	var contradictions []models.Contradiction
	err := h.db.Preload("ClaimA").Preload("ClaimB").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&contradictions).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve contradictions",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"contradictions": contradictions})
}

// GetSources handles GET /api/sources
func (h *ArticlesHandler) GetSources(c *gin.Context) {
	var activeSources []models.Source
	err := h.db.Where("is_active = ?", true).
		Order("credibility_score DESC").
		Find(&activeSources).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve sources",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sources": activeSources})
}

// HealthCheck handles GET /health
func (h *ArticlesHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "skywatch",
	})
}

// WorkerStatus handles GET /api/worker/status
func (h *ArticlesHandler) WorkerStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"worker_status": h.workerService.GetStatus(),
	})
}
