package repository

import (
	"safeguard/internal/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type AuthRepository interface {
	CreateUser(user *models.User) error
	GetUserByUsername(username string) (*models.User, error)
}

type authRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewAuthRepository(db *sqlx.DB, log *logrus.Logger) AuthRepository {
	return &authRepository{db: db, log: log}
}

func (r *authRepository) CreateUser(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	query := `INSERT INTO users (id, family_id, username, password_hash, role)
	          VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	return r.db.QueryRowx(query, user.ID, user.FamilyID, user.Username, user.PasswordHash,
		user.Role).Scan(&user.CreatedAt)
}

func (r *authRepository) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	query := `SELECT id, family_id, username, password_hash, role, created_at FROM users WHERE username = $1`
	err := r.db.Get(&user, query, username)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
