package service

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ndolgov/auth-service/internal/models"
	"github.com/ndolgov/auth-service/internal/repo"
)

func newTokenService(t *testing.T, accessTTL time.Duration) *TokenService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.SecurityQuestion{}, &models.RefreshToken{}))

	return NewTokenService(repo.NewGormStore(db), []byte("test-jwt-secret"), accessTTL, 24*time.Hour)
}

func TestIssueAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t, 15*time.Minute)
	userID := uuid.New()

	token, exp, err := svc.IssueAccessToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), exp, 2*time.Second)

	got, err := svc.VerifyAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestVerifyAccessToken_Invalid(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t, 15*time.Minute)
	token, _, err := svc.IssueAccessToken(uuid.New())
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "garbage", token: "not.a.jwt"},
		{name: "tampered", token: token[:len(token)-2] + "xx"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.VerifyAccessToken(tt.token)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrTokenInvalid)
		})
	}
}

func TestVerifyAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t, 15*time.Minute)
	other := newTokenService(t, 15*time.Minute)
	other.Secret = []byte("different-secret")

	token, _, err := svc.IssueAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerifyAccessToken_Expired(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t, -time.Minute)
	token, _, err := svc.IssueAccessToken(uuid.New())
	require.NoError(t, err)

	_, err = svc.VerifyAccessToken(token)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssueRefreshToken_StoresHashNotRaw(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t, 15*time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	rec, raw, err := svc.IssueRefreshToken(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.NotEqual(t, raw, rec.TokenHash)
	assert.Equal(t, userID, rec.UserID)

	stored, err := svc.Store.RefreshTokenByHash(ctx, hashToken(raw))
	require.NoError(t, err)
	assert.Equal(t, rec.ID, stored.ID)
}

func TestRefresh_RotatesAndSpendsToken(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t, 15*time.Minute)
	ctx := context.Background()
	userID := uuid.New()

	_, raw, err := svc.IssueRefreshToken(ctx, userID)
	require.NoError(t, err)

	pair, err := svc.Refresh(ctx, raw)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, raw, pair.RefreshToken)

	got, err := svc.VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	// The presented token is spent: a second refresh must fail even though
	// the token has not expired.
	_, err = svc.Refresh(ctx, raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// The successor is live.
	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
}

func TestRefresh_UnknownToken(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t, 15*time.Minute)

	_, err := svc.Refresh(context.Background(), "never-issued")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRefresh_ExpiredToken(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t, 15*time.Minute)
	svc.RefreshTTL = -time.Minute
	ctx := context.Background()

	_, raw, err := svc.IssueRefreshToken(ctx, uuid.New())
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRevoke_Idempotent(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t, 15*time.Minute)
	ctx := context.Background()

	_, raw, err := svc.IssueRefreshToken(ctx, uuid.New())
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, raw))
	require.NoError(t, svc.Revoke(ctx, raw))
	require.NoError(t, svc.Revoke(ctx, "never-issued"))

	_, err = svc.Refresh(ctx, raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestRevokeAllForUser_LeavesOthersAlone(t *testing.T) {
	t.Parallel()

	svc := newTokenService(t, 15*time.Minute)
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	_, aliceRaw1, err := svc.IssueRefreshToken(ctx, alice)
	require.NoError(t, err)
	_, aliceRaw2, err := svc.IssueRefreshToken(ctx, alice)
	require.NoError(t, err)
	_, bobRaw, err := svc.IssueRefreshToken(ctx, bob)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAllForUser(ctx, alice))

	_, err = svc.Refresh(ctx, aliceRaw1)
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = svc.Refresh(ctx, aliceRaw2)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = svc.Refresh(ctx, bobRaw)
	assert.NoError(t, err)
}
