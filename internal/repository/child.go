package repository

import (
	"safeguard/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type ChildRepository interface {
	CreateChild(child *models.Child) error
	GetChildByID(id string) (*models.Child, error)
	GetChildrenByFamily(familyID string) ([]*models.Child, error)
	UpdateSafetyScore(childID string, score int) error
}

type childRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewChildRepository(db *sqlx.DB, logger *zap.Logger) ChildRepository {
	return &childRepository{db: db, logger: logger}
}

func (r *childRepository) CreateChild(child *models.Child) error {
	if child.ID == "" {
		child.ID = uuid.NewString()
	}
	query := `INSERT INTO children (id, family_id, display_name, birth_date, safety_score)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	return r.db.QueryRowx(query, child.ID, child.FamilyID, child.DisplayName, child.BirthDate,
		child.SafetyScore).Scan(&child.ID, &child.CreatedAt)
}

func (r *childRepository) GetChildByID(id string) (*models.Child, error) {
	var child models.Child
	query := `SELECT id, family_id, display_name, birth_date, safety_score, created_at FROM children WHERE id = $1`
	err := r.db.Get(&child, query, id)
	if err != nil {
		return nil, err
	}
	return &child, nil
}

func (r *childRepository) GetChildrenByFamily(familyID string) ([]*models.Child, error) {
	var children []*models.Child
	query := `SELECT id, family_id, display_name, birth_date, safety_score, created_at
	          FROM children WHERE family_id = $1 ORDER BY created_at`
	err := r.db.Select(&children, query, familyID)
	if err != nil {
		return nil, err
	}
	return children, nil
}

func (r *childRepository) UpdateSafetyScore(childID string, score int) error {
	query := `UPDATE children SET safety_score = $2 WHERE id = $1`
	_, err := r.db.Exec(query, childID, score)
	return err
}
