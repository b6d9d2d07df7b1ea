package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/sumire/managers/internal/service"
)

const authPrefix = "/auth"

// RouterConfig holds the dependencies of the HTTP surface.
type RouterConfig struct {
	Auth     *service.AuthService
	Profiles *service.ProfileService
	Cookies  *SessionCookies
	AppURL   string
}

// NewRouter builds the echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Validator = NewAppValidator()

	e.Use(middleware.RequestID())
	e.Use(RequestLogger())
	e.Use(middleware.Recover())

	authHandler := NewAuthHandler(cfg.Auth, cfg.Cookies, cfg.AppURL)
	profileHandler := NewProfileHandler(cfg.Profiles)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth routes (public)
	auth := e.Group(authPrefix)
	auth.GET("/authorize-start", authHandler.AuthorizeStart)
	auth.GET("/slack", authHandler.AuthorizeStart)
	auth.GET("/callback", authHandler.Callback)
	e.GET("/logout", authHandler.Logout)

	// Protected routes
	api := e.Group("/api", SessionAuth(cfg.Auth, cfg.Cookies))
	api.GET("/me", profileHandler.Me)
	api.GET("/user/:userId", profileHandler.User)
	api.POST("/update-profile", profileHandler.UpdateProfile)
	api.GET("/managers", profileHandler.Managers)
	api.POST("/managers", profileHandler.AddManager)
	api.DELETE("/managers/:userId", profileHandler.RemoveManager)

	return e
}
