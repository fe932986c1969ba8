package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type User struct {
	ID           string    `db:"id"`
	FamilyID     string    `db:"family_id"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	CreatedAt    time.Time `db:"created_at"`
}

// Claims defines the structure of the JWT claims.
type Claims struct {
	Username string `json:"username"`
	FamilyID string `json:"family_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
