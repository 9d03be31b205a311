package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ndolgov/auth-service/internal/service"
)

// BearerAuth guards routes that require a valid access token. It verifies
// the Authorization header and stores the user id in the echo context.
type BearerAuth struct {
	Tokens *service.TokenService
}

func NewBearerAuth(tokens *service.TokenService) *BearerAuth {
	return &BearerAuth{Tokens: tokens}
}

func (m *BearerAuth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := BearerToken(c)
		if !ok {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
		}
		userID, err := m.Tokens.VerifyAccessToken(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "could not validate credentials")
		}
		c.Set("user_id", userID)
		c.Set("access_token", token)
		return next(c)
	}
}

// BearerToken extracts the token from an "Authorization: Bearer x" header.
func BearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}
