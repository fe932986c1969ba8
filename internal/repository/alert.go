package repository

import (
	"time"

	"safeguard/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type AlertRepository interface {
	CreateAlert(alert *models.Alert) error
	GetAlertByID(id string) (*models.Alert, error)
	GetAlertsByFamily(familyID string) ([]*models.Alert, error)
	GetAlertsByStatus(familyID, status string) ([]*models.Alert, error)
	GetRecentByChild(childID string, limit int) ([]*models.Alert, error)
	UpdateAlertStatus(id, status, acknowledgedBy string, parentNotes *string) error
}

type alertRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewAlertRepository(db *sqlx.DB, logger *zap.Logger) AlertRepository {
	return &alertRepository{db: db, logger: logger}
}

const alertColumns = `id, family_id, child_id, severity, category, title, description,
	suggested_action, context_messages, ai_reasoning, status, acknowledged_by,
	acknowledged_at, parent_notes, created_at`

func (r *alertRepository) CreateAlert(alert *models.Alert) error {
	if alert.ID == "" {
		alert.ID = uuid.NewString()
	}
	query := `INSERT INTO alerts (id, family_id, child_id, severity, category, title, description,
	          suggested_action, context_messages, ai_reasoning, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING created_at`
	return r.db.QueryRowx(query, alert.ID, alert.FamilyID, alert.ChildID, alert.Severity,
		alert.Category, alert.Title, alert.Description, alert.SuggestedAction,
		alert.ContextMessages, alert.AIReasoning, alert.Status).Scan(&alert.CreatedAt)
}

func (r *alertRepository) GetAlertByID(id string) (*models.Alert, error) {
	var alert models.Alert
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`
	err := r.db.Get(&alert, query, id)
	if err != nil {
		return nil, err
	}
	return &alert, nil
}

func (r *alertRepository) GetAlertsByFamily(familyID string) ([]*models.Alert, error) {
	var alerts []*models.Alert
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE family_id = $1 ORDER BY created_at DESC`
	err := r.db.Select(&alerts, query, familyID)
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepository) GetAlertsByStatus(familyID, status string) ([]*models.Alert, error) {
	var alerts []*models.Alert
	query := `SELECT ` + alertColumns + ` FROM alerts
	          WHERE family_id = $1 AND status = $2 ORDER BY created_at DESC`
	err := r.db.Select(&alerts, query, familyID, status)
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepository) GetRecentByChild(childID string, limit int) ([]*models.Alert, error) {
	var alerts []*models.Alert
	query := `SELECT ` + alertColumns + ` FROM alerts
	          WHERE child_id = $1 ORDER BY created_at DESC LIMIT $2`
	err := r.db.Select(&alerts, query, childID, limit)
	if err != nil {
		return nil, err
	}
	return alerts, nil
}

func (r *alertRepository) UpdateAlertStatus(id, status, acknowledgedBy string, parentNotes *string) error {
	query := `UPDATE alerts
	          SET status = $2, acknowledged_by = $3, acknowledged_at = $4, parent_notes = COALESCE($5, parent_notes)
	          WHERE id = $1`
	_, err := r.db.Exec(query, id, status, acknowledgedBy, time.Now(), parentNotes)
	return err
}
