package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ndolgov/auth-service/internal/events"
	"github.com/ndolgov/auth-service/internal/hash"
	"github.com/ndolgov/auth-service/internal/logging"
	"github.com/ndolgov/auth-service/internal/models"
	"github.com/ndolgov/auth-service/internal/repo"
)

// AuthService orchestrates registration, login, session management and
// password recovery. It holds no state of its own; everything durable lives
// behind repo.Store.
type AuthService struct {
	Store    repo.Store
	Tokens   *TokenService
	Producer *events.Producer
}

func NewAuthService(store repo.Store, tokens *TokenService, producer *events.Producer) *AuthService {
	return &AuthService{Store: store, Tokens: tokens, Producer: producer}
}

// Register creates a user with a hashed password and a hashed, normalized
// security answer. The returned user marshals without either hash.
func (s *AuthService) Register(ctx context.Context, email, username, password string, questionID uint, answer string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	q, err := s.Store.QuestionByID(ctx, questionID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidSecurityQuestion
		}
		return nil, err
	}
	if !q.IsActive {
		return nil, ErrInvalidSecurityQuestion
	}

	hashedPassword, err := hash.Password(password)
	if err != nil {
		return nil, err
	}
	hashedAnswer, err := hash.Answer(answer)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Email:                email,
		Username:             username,
		HashedPassword:       hashedPassword,
		SecurityQuestionID:   &q.ID,
		HashedSecurityAnswer: hashedAnswer,
		IsActive:             true,
	}
	if err := s.Store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrDuplicateIdentity
		}
		return nil, err
	}

	s.publish(ctx, events.UserRegistered, user.ID, map[string]any{"username": user.Username})
	l.Info("user_registered", "user_id", user.ID)
	return user, nil
}

// Login verifies credentials and issues an access/refresh pair. Unknown
// username, wrong password and inactive account all return the identical
// ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Store.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.Verify(password, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issuePair(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	l.Info("login_successful", "user_id", user.ID)
	return pair, nil
}

// CurrentUser resolves a bearer access token to its user.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*models.User, error) {
	userID, err := s.Tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, ErrUnauthorized
	}
	user, err := s.Store.UserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}

// RefreshSession rotates the refresh token and returns a fresh pair.
func (s *AuthService) RefreshSession(ctx context.Context, refreshToken string) (*TokenPair, error) {
	pair, err := s.Tokens.Refresh(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, ErrTokenInvalid) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return pair, nil
}

// Logout revokes one session. Idempotent: an already-revoked or unknown
// token is not an error.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Tokens.Revoke(ctx, refreshToken)
}

// LogoutAll terminates every session of the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.Tokens.RevokeAllForUser(ctx, userID); err != nil {
		return err
	}
	s.publish(ctx, events.SessionsRevoked, userID, nil)
	return nil
}

// SecurityQuestions lists the active catalog in stable order.
func (s *AuthService) SecurityQuestions(ctx context.Context) ([]models.SecurityQuestion, error) {
	return s.Store.ActiveQuestions(ctx)
}

// ForgotPasswordResult is success-shaped for every outcome that must not
// reveal account existence: a real account yields its question, an unknown
// email yields only the generic flag.
type ForgotPasswordResult struct {
	Question string
	Generic  bool
}

// ForgotPassword starts the recovery flow. An unknown email returns a
// generic result indistinguishable in shape from the real case; an existing
// account without a question fails with ErrNoSecurityQuestion.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*ForgotPasswordResult, error) {
	user, err := s.Store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return &ForgotPasswordResult{Generic: true}, nil
		}
		return nil, err
	}
	if user.SecurityQuestionID == nil {
		return nil, ErrNoSecurityQuestion
	}
	q, err := s.Store.QuestionByID(ctx, *user.SecurityQuestionID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNoSecurityQuestion
		}
		return nil, err
	}
	return &ForgotPasswordResult{Question: q.Question}, nil
}

// ResetPassword completes the recovery flow: verify the normalized answer,
// store the new password hash and revoke every outstanding session. The
// revoke must finish before success is reported; a compromised session must
// not outlive the reset.
func (s *AuthService) ResetPassword(ctx context.Context, email, answer, newPassword string) error {
	l := logging.FromContext(ctx).With("svc", "auth.reset_password")

	user, err := s.Store.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if !hash.VerifyAnswer(answer, user.HashedSecurityAnswer) {
		return ErrIncorrectAnswer
	}

	hashedPassword, err := hash.Password(newPassword)
	if err != nil {
		return err
	}
	if err := s.Store.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}
	if err := s.Tokens.RevokeAllForUser(ctx, user.ID); err != nil {
		return err
	}

	s.publish(ctx, events.PasswordReset, user.ID, nil)
	l.Info("password_reset", "user_id", user.ID)
	return nil
}

func (s *AuthService) issuePair(ctx context.Context, userID uuid.UUID) (*TokenPair, error) {
	access, accessExp, err := s.Tokens.IssueAccessToken(userID)
	if err != nil {
		return nil, err
	}
	refresh, raw, err := s.Tokens.IssueRefreshToken(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		AccessExp:    accessExp,
		RefreshToken: raw,
		RefreshExp:   refresh.ExpiresAt,
	}, nil
}

// publish emits a lifecycle event when a producer is configured. Event
// delivery never fails the operation that triggered it.
func (s *AuthService) publish(ctx context.Context, eventType string, userID uuid.UUID, extra map[string]any) {
	if s.Producer == nil {
		return
	}
	if err := s.Producer.PublishEvent(ctx, eventType, userID.String(), extra); err != nil {
		logging.FromContext(ctx).Warn("event_publish_failed", "type", eventType, "error", err)
	}
}
