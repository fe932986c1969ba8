package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"safeguard/internal/models"
	"safeguard/internal/repository"
)

type AlertHandler interface {
	GetAlerts(c *gin.Context)
	GetAlertByID(c *gin.Context)
	UpdateAlertStatus(c *gin.Context)
}

type alertHandler struct {
	alertRepo repository.AlertRepository
	logger    *zap.Logger
}

func NewAlertHandler(alertRepo repository.AlertRepository, logger *zap.Logger) AlertHandler {
	return &alertHandler{alertRepo: alertRepo, logger: logger}
}

// GetAlerts handles GET /api/alerts
// Query parameters:
// - status: filter by status (optional)
func (h *alertHandler) GetAlerts(c *gin.Context) {
	familyID := c.MustGet("family_id").(string)
	status := c.Query("status")

	var alerts []*models.Alert
	var err error

	if status != "" {
		alerts, err = h.alertRepo.GetAlertsByStatus(familyID, status)
	} else {
		alerts, err = h.alertRepo.GetAlertsByFamily(familyID)
	}

	if err != nil {
		h.logger.Error("Failed to get alerts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts})
}

// GetAlertByID handles GET /api/alerts/:id
func (h *alertHandler) GetAlertByID(c *gin.Context) {
	familyID := c.MustGet("family_id").(string)
	id := c.Param("id")

	alert, err := h.alertRepo.GetAlertByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
			return
		}
		h.logger.Error("Failed to get alert", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve alert"})
		return
	}

	// Ownership check: alerts are only visible to their own family.
	if alert.FamilyID != familyID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

// UpdateAlertStatus handles PUT /api/alerts/:id/status
type UpdateAlertStatusRequest struct {
	Status      string  `json:"status" binding:"required"`
	ParentNotes *string `json:"parent_notes"`
}

func (h *alertHandler) UpdateAlertStatus(c *gin.Context) {
	familyID := c.MustGet("family_id").(string)
	username := c.MustGet("username").(string)
	id := c.Param("id")

	var req UpdateAlertStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind JSON for status update", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	validStatuses := map[string]bool{
		models.AlertStatusAcknowledged:  true,
		models.AlertStatusResolved:      true,
		models.AlertStatusFalsePositive: true,
	}
	if !validStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status. Valid values: acknowledged, resolved, false_positive"})
		return
	}

	alert, err := h.alertRepo.GetAlertByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
			return
		}
		h.logger.Error("Failed to get alert", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve alert"})
		return
	}
	if alert.FamilyID != familyID {
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		return
	}

	err = h.alertRepo.UpdateAlertStatus(id, req.Status, username, req.ParentNotes)
	if err != nil {
		h.logger.Error("Failed to update alert status", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update alert status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert status updated successfully"})
}
