package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"safeguard/internal/models"
	"safeguard/internal/repository"
)

type ChildHandler interface {
	CreateChild(c *gin.Context)
	GetChildren(c *gin.Context)
	GetChildByID(c *gin.Context)
}

type childHandler struct {
	childRepo repository.ChildRepository
	logger    *zap.Logger
}

func NewChildHandler(childRepo repository.ChildRepository, logger *zap.Logger) ChildHandler {
	return &childHandler{childRepo: childRepo, logger: logger}
}

type CreateChildRequest struct {
	DisplayName string `json:"display_name" binding:"required"`
	BirthDate   string `json:"birth_date"` // RFC3339 date, optional
}

// CreateChild handles POST /api/children
func (h *childHandler) CreateChild(c *gin.Context) {
	familyID := c.MustGet("family_id").(string)

	var req CreateChildRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON for child creation", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var birthDate *time.Time
	if req.BirthDate != "" {
		parsed, err := time.Parse("2006-01-02", req.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "birth_date must be in YYYY-MM-DD format"})
			return
		}
		birthDate = &parsed
	}

	child := &models.Child{
		FamilyID:    familyID,
		DisplayName: req.DisplayName,
		BirthDate:   birthDate,
		SafetyScore: 100, // New children start with a clean score
	}
	if err := h.childRepo.CreateChild(child); err != nil {
		h.logger.Error("Failed to create child", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create child"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"child": child})
}

// GetChildren handles GET /api/children
func (h *childHandler) GetChildren(c *gin.Context) {
	familyID := c.MustGet("family_id").(string)

	children, err := h.childRepo.GetChildrenByFamily(familyID)
	if err != nil {
		h.logger.Error("Failed to get children", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve children"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"children": children})
}

// GetChildByID handles GET /api/children/:id
func (h *childHandler) GetChildByID(c *gin.Context) {
	familyID := c.MustGet("family_id").(string)
	id := c.Param("id")

	child, err := h.childRepo.GetChildByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Child not found"})
			return
		}
		h.logger.Error("Failed to get child", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve child"})
		return
	}

	if child.FamilyID != familyID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Child not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"child": child})
}
