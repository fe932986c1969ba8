package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"safeguard/internal/models"
	"safeguard/internal/repository"
)

type DashboardHandler interface {
	GetDashboard(c *gin.Context)
}

type dashboardHandler struct {
	childRepo repository.ChildRepository
	alertRepo repository.AlertRepository
	logger    *zap.Logger
}

func NewDashboardHandler(childRepo repository.ChildRepository, alertRepo repository.AlertRepository, logger *zap.Logger) DashboardHandler {
	return &dashboardHandler{
		childRepo: childRepo,
		alertRepo: alertRepo,
		logger:    logger,
	}
}

// DashboardStats represents the statistics for the parent dashboard
type DashboardStats struct {
	TotalChildren      int             `json:"total_children"`
	ActiveAlerts       int             `json:"active_alerts"`
	CriticalAlerts     int             `json:"critical_alerts"`
	AverageSafetyScore int             `json:"average_safety_score"`
	AlertsBySeverity   map[string]int  `json:"alerts_by_severity"`
	AlertsByCategory   map[string]int  `json:"alerts_by_category"`
	RecentAlerts       []*models.Alert `json:"recent_alerts"`
}

// GetDashboard handles GET /api/dashboard
func (h *dashboardHandler) GetDashboard(c *gin.Context) {
	familyID := c.MustGet("family_id").(string)

	children, err := h.childRepo.GetChildrenByFamily(familyID)
	if err != nil {
		h.logger.Error("Failed to get children for dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard data"})
		return
	}

	alerts, err := h.alertRepo.GetAlertsByFamily(familyID)
	if err != nil {
		h.logger.Error("Failed to get alerts for dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve dashboard data"})
		return
	}

	stats := DashboardStats{
		TotalChildren:    len(children),
		AlertsBySeverity: make(map[string]int),
		AlertsByCategory: make(map[string]int),
	}

	if len(children) > 0 {
		total := 0
		for _, child := range children {
			total += child.SafetyScore
		}
		stats.AverageSafetyScore = total / len(children)
	}

	for _, alert := range alerts {
		stats.AlertsBySeverity[alert.Severity]++
		stats.AlertsByCategory[alert.Category]++
		if alert.Status == models.AlertStatusNew {
			stats.ActiveAlerts++
			if alert.Severity == models.SeverityCritical {
				stats.CriticalAlerts++
			}
		}
	}

	// Most recent alerts, capped at 10 (alerts are ordered newest first)
	if len(alerts) > 10 {
		stats.RecentAlerts = alerts[:10]
	} else {
		stats.RecentAlerts = alerts
	}

	c.JSON(http.StatusOK, stats)
}
