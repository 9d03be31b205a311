package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ndolgov/auth-service/internal/middleware"
	"github.com/ndolgov/auth-service/internal/service"
)

type Deps struct {
	AuthHandler *AuthHTTP
	Tokens      *service.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMw := middleware.NewBearerAuth(d.Tokens)

	g := e.Group("/api/v1/auth")
	g.POST("/register", d.AuthHandler.Register)
	g.POST("/login", d.AuthHandler.Login)
	g.POST("/refresh", d.AuthHandler.Refresh)
	g.POST("/logout", d.AuthHandler.Logout)
	g.GET("/security-questions", d.AuthHandler.SecurityQuestions)
	g.POST("/forgot-password", d.AuthHandler.ForgotPassword)
	g.POST("/reset-password", d.AuthHandler.ResetPassword)

	private := g.Group("")
	private.Use(authMw.RequireAuth)
	private.GET("/me", d.AuthHandler.Me)
	private.POST("/logout-all", d.AuthHandler.LogoutAll)
}
