package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ndolgov/auth-service/internal/models"
)

func (s *GormStore) CreateRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return s.DB.WithContext(ctx).Create(t).Error
}

func (s *GormStore) RefreshTokenByHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	if err := s.DB.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// RevokeRefreshToken marks the token revoked. Idempotent: revoking an
// already-revoked or unknown token is not an error.
func (s *GormStore) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return s.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}

// RevokeAllForUser revokes every outstanding token for the user in a single
// statement, so no observer sees a partial revoke.
func (s *GormStore) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}

func (s *GormStore) ActiveRefreshTokens(ctx context.Context, userID uuid.UUID) ([]models.RefreshToken, error) {
	var ts []models.RefreshToken
	if err := s.DB.WithContext(ctx).
		Where("user_id = ? AND revoked = ? AND expires_at > ?", userID, false, time.Now().UTC()).
		Find(&ts).Error; err != nil {
		return nil, err
	}
	return ts, nil
}

// RotateRefreshToken atomically spends the presented token and inserts its
// successor. The revoke is a guarded update: if the token was already
// revoked, expired or never existed, zero rows change and the rotation fails
// with ErrTokenSpent. A refresh racing a revoke-all can therefore never
// revive a token.
func (s *GormStore) RotateRefreshToken(ctx context.Context, oldHash string, next *models.RefreshToken) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.RefreshToken{}).
			Where("token_hash = ? AND revoked = ? AND expires_at > ?", oldHash, false, time.Now().UTC()).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenSpent
		}
		return tx.Create(next).Error
	})
}
