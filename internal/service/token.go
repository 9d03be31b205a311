package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/ndolgov/auth-service/internal/models"
	"github.com/ndolgov/auth-service/internal/repo"
)

// TokenService issues and verifies access tokens (stateless HS256 JWTs) and
// owns the refresh-token lifecycle (stateful, stored hashed, rotated on use).
type TokenService struct {
	Store      repo.Store
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func NewTokenService(store repo.Store, secret []byte, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		Store:      store,
		Secret:     secret,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
}

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string
	AccessExp    time.Time
	RefreshToken string
	RefreshExp   time.Time
}

type accessClaims struct {
	jwt.RegisteredClaims
}

// IssueAccessToken signs a claim set for the user with expiry now+AccessTTL.
func (s *TokenService) IssueAccessToken(userID uuid.UUID) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(s.AccessTTL)
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(s.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// VerifyAccessToken checks signature and expiry and returns the user id.
// Tampered, malformed and expired tokens all come back as ErrTokenInvalid.
func (s *TokenService) VerifyAccessToken(tokenStr string) (uuid.UUID, error) {
	var claims accessClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return s.Secret, nil
	})
	if err != nil || !tkn.Valid {
		return uuid.Nil, ErrTokenInvalid
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return userID, nil
}

// IssueRefreshToken mints an opaque random token, persists its hash and
// returns the stored record together with the raw value for the client.
func (s *TokenService) IssueRefreshToken(ctx context.Context, userID uuid.UUID) (*models.RefreshToken, string, error) {
	raw, err := randomHex(32)
	if err != nil {
		return nil, "", err
	}
	now := time.Now().UTC()
	t := &models.RefreshToken{
		UserID:    userID,
		TokenHash: hashToken(raw),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.RefreshTTL),
	}
	if err := s.Store.CreateRefreshToken(ctx, t); err != nil {
		return nil, "", err
	}
	return t, raw, nil
}

// Refresh spends the presented token and issues a fresh pair bound to the
// same user. A token refreshes successfully exactly once; unknown, revoked
// and expired tokens fail with ErrTokenInvalid.
func (s *TokenService) Refresh(ctx context.Context, raw string) (*TokenPair, error) {
	oldHash := hashToken(raw)
	old, err := s.Store.RefreshTokenByHash(ctx, oldHash)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	newRaw, err := randomHex(32)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	next := &models.RefreshToken{
		UserID:    old.UserID,
		TokenHash: hashToken(newRaw),
		IssuedAt:  now,
		ExpiresAt: now.Add(s.RefreshTTL),
	}
	if err := s.Store.RotateRefreshToken(ctx, oldHash, next); err != nil {
		if errors.Is(err, repo.ErrTokenSpent) {
			return nil, ErrTokenInvalid
		}
		return nil, err
	}

	access, accessExp, err := s.IssueAccessToken(old.UserID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		AccessExp:    accessExp,
		RefreshToken: newRaw,
		RefreshExp:   next.ExpiresAt,
	}, nil
}

// Revoke marks the token revoked regardless of its prior state.
func (s *TokenService) Revoke(ctx context.Context, raw string) error {
	return s.Store.RevokeRefreshToken(ctx, hashToken(raw))
}

// RevokeAllForUser terminates every session of the user.
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID uuid.UUID) error {
	return s.Store.RevokeAllForUser(ctx, userID)
}

func hashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
