package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/ndolgov/auth-service/internal/logging"
	"github.com/ndolgov/auth-service/internal/middleware"
	"github.com/ndolgov/auth-service/internal/service"
	"github.com/ndolgov/auth-service/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		l.Warn("register_rejected", "status", 422, "error", err)
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.Svc.Register(ctx, req.Email, req.Username, req.Password, req.SecurityQuestionID, req.SecurityAnswer)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	pair, err := h.Svc.Login(ctx, req.Username, req.Password)
	if err != nil {
		l.Warn("login_failed", "username", req.Username)
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, tokenResponse(pair))
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	pair, err := h.Svc.RefreshSession(ctx, req.RefreshToken)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, tokenResponse(pair))
}

// Logout revokes the presented refresh token. Idempotent, so a repeated
// logout of the same session still returns 204.
func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.Svc.Logout(ctx, req.RefreshToken); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// LogoutAll revokes every session of the authenticated user.
func (h *AuthHTTP) LogoutAll(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := c.Get("user_id").(uuid.UUID)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
	}
	if err := h.Svc.LogoutAll(ctx, userID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "logout failed")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()

	token, _ := c.Get("access_token").(string)
	if token == "" {
		if t, ok := middleware.BearerToken(c); ok {
			token = t
		}
	}
	user, err := h.Svc.CurrentUser(ctx, token)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) SecurityQuestions(c echo.Context) error {
	questions, err := h.Svc.SecurityQuestions(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, questions)
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req transport.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.Svc.ForgotPassword(ctx, req.Email)
	if err != nil {
		return mapServiceError(err)
	}
	if res.Generic {
		return c.JSON(http.StatusOK, transport.ForgotPasswordResponse{
			Message: "If this email is registered, its security question applies",
		})
	}
	return c.JSON(http.StatusOK, transport.ForgotPasswordResponse{Question: res.Question})
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_reset_password")

	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := req.Validate(); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	if err := h.Svc.ResetPassword(ctx, req.Email, req.SecurityAnswer, req.NewPassword); err != nil {
		l.Warn("reset_password_failed", "error", err)
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, transport.MessageResponse{Message: "Password reset successfully"})
}

func tokenResponse(pair *service.TokenPair) transport.TokenResponse {
	return transport.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(time.Until(pair.AccessExp).Seconds()),
	}
}

// mapServiceError translates the service taxonomy into HTTP status codes.
// Anything outside the taxonomy is a 500 with a generic message.
func mapServiceError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrDuplicateIdentity),
		errors.Is(err, service.ErrInvalidSecurityQuestion),
		errors.Is(err, service.ErrIncorrectAnswer),
		errors.Is(err, service.ErrNoSecurityQuestion):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
