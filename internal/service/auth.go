package service

import (
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/argon2"

	"safeguard/internal/models"
	"safeguard/internal/repository"
)

var ( // Define custom errors
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Secret key for JWT signing (for demonstration purposes only, use a strong, secure key in production)
var jwtSecret = []byte("supersecretjwtkey")

// GetJWTSecret returns the JWT secret key.
func GetJWTSecret() []byte {
	return jwtSecret
}

type AuthService interface {
	RegisterParent(username, password string) (*models.User, error)
	Login(username, password string) (string, time.Time, error) // Returns JWT token, expiration time, and error
	Logout(username string) error
}

type authService struct {
	repo   repository.AuthRepository
	logger *zap.Logger
}

func NewAuthService(repo repository.AuthRepository, logger *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		logger: logger,
	}
}

func (s *authService) RegisterParent(username, password string) (*models.User, error) {
	existing, err := s.repo.GetUserByUsername(username)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		s.logger.Error("Failed to check existing user", zap.Error(err))
		return nil, fmt.Errorf("failed to check existing users: %w", err)
	}
	if existing != nil {
		return nil, ErrUserAlreadyExists
	}

	passwordHash, err := s.hashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		FamilyID:     uuid.NewString(), // Each registering parent starts a new family
		Username:     username,
		PasswordHash: passwordHash,
		Role:         "parent",
	}

	err = s.repo.CreateUser(user)
	if err != nil {
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *authService) Login(username, password string) (string, time.Time, error) {
	user, err := s.repo.GetUserByUsername(username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", time.Time{}, ErrUserNotFound
		}
		s.logger.Error("Failed to get user by username", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !s.verifyPassword(user.PasswordHash, password) {
		return "", time.Time{}, ErrInvalidCredentials
	}

	expirationTime := time.Now().Add(24 * time.Hour)
	claims := &models.Claims{
		Username: user.Username,
		FamilyID: user.FamilyID,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		s.logger.Error("Failed to generate JWT token", zap.Error(err))
		return "", time.Time{}, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("User logged in successfully.", zap.String("username", user.Username))

	return tokenString, expirationTime, nil
}

func (s *authService) Logout(username string) error {
	// TODO: Invalidate JWT token (e.g., add to a blacklist in Redis)
	s.logger.Info("User logged out successfully.", zap.String("username", username))
	return nil
}

// hashPassword uses Argon2 to hash the password.
func (s *authService) hashPassword(password string) (string, error) {
	salt := make([]byte, 16)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}

	hash := argon2.IDKey([]byte(password), salt, 1, 64*1024, uint8(4), 32)

	// Store salt and hash together, e.g., $argon2id$v=19$m=65536,t=1,p=4$BASE64_SALT$BASE64_HASH
	encodedSalt := base64.RawStdEncoding.EncodeToString(salt)
	encodedHash := base64.RawStdEncoding.EncodeToString(hash)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s", argon2.Version, 64*1024, 1, 4, encodedSalt, encodedHash), nil
}

// verifyPassword compares a plaintext password with a hashed password.
func (s *authService) verifyPassword(hashedPassword, password string) bool {
	// Parse the encoded hash format: $argon2id$v=19$m=65536,t=1,p=4$salt$hash
	parts := []byte(hashedPassword)

	sections := make([]string, 0)
	start := 0
	for i, b := range parts {
		if b == '$' {
			if i > start {
				sections = append(sections, string(parts[start:i]))
			}
			start = i + 1
		}
	}
	if start < len(parts) {
		sections = append(sections, string(parts[start:]))
	}

	// Expected format: ["argon2id", "v=19", "m=65536,t=1,p=4", "salt", "hash"]
	if len(sections) != 5 {
		s.logger.Error("Invalid hash format", zap.Int("sections", len(sections)))
		return false
	}

	var version int
	fmt.Sscanf(sections[1], "v=%d", &version)

	var m, t, p uint32
	fmt.Sscanf(sections[2], "m=%d,t=%d,p=%d", &m, &t, &p)

	decodedSalt, err := base64.RawStdEncoding.DecodeString(sections[3])
	if err != nil {
		s.logger.Error("Failed to decode salt", zap.Error(err))
		return false
	}
	decodedHash, err := base64.RawStdEncoding.DecodeString(sections[4])
	if err != nil {
		s.logger.Error("Failed to decode hash", zap.Error(err))
		return false
	}

	// Re-hash the provided password with the extracted parameters and salt
	comparisonHash := argon2.IDKey([]byte(password), decodedSalt, t, m, uint8(p), uint32(len(decodedHash)))

	return fmt.Sprintf("%x", comparisonHash) == fmt.Sprintf("%x", decodedHash)
}
