// Package repo provides the credential store: users, security questions and
// refresh tokens. Services depend on the Store interface; GormStore is the
// database-backed implementation.
package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ndolgov/auth-service/internal/models"
)

var (
	// ErrNotFound is returned when the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate is returned when an insert violates a uniqueness
	// constraint (email, username).
	ErrDuplicate = errors.New("already exists")
	// ErrTokenSpent is returned by RotateRefreshToken when the presented
	// token is unknown, revoked or expired.
	ErrTokenSpent = errors.New("refresh token spent")
)

// Store is the persistence contract consumed by the services. Every method is
// atomic with respect to a single entity; RevokeAllForUser is atomic as a set
// and RotateRefreshToken serializes rotation against concurrent revocation.
type Store interface {
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	UpdatePassword(ctx context.Context, userID uuid.UUID, hashedPassword string) error

	QuestionByID(ctx context.Context, id uint) (*models.SecurityQuestion, error)
	ActiveQuestions(ctx context.Context) ([]models.SecurityQuestion, error)

	CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error
	RefreshTokenByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) error
	ActiveRefreshTokens(ctx context.Context, userID uuid.UUID) ([]models.RefreshToken, error)
	RotateRefreshToken(ctx context.Context, oldHash string, next *models.RefreshToken) error
}

// GormStore implements Store on top of *gorm.DB.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore { return &GormStore{DB: db} }

var _ Store = (*GormStore)(nil)
