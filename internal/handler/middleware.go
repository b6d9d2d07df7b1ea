package handler

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sumire/managers/internal/domain"
	"github.com/sumire/managers/internal/service"
)

const (
	contextKeySession = "session"
)

// RequestLogger logs each HTTP request with structured fields.
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				c.Error(err)
			}

			slog.Info("http request",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)

			return nil
		}
	}
}

// SessionAuth resolves the session cookie and injects the session into echo context.
func SessionAuth(auth *service.AuthService, cookies *SessionCookies) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := cookies.SessionID(c.Request())
			if err != nil {
				return domain.ErrUnauthenticated
			}

			session, err := auth.Authenticate(c.Request().Context(), id)
			if err != nil {
				return err
			}

			c.Set(contextKeySession, session)
			return next(c)
		}
	}
}

// GetSession extracts the authenticated session from echo context.
func GetSession(c echo.Context) (*domain.Session, bool) {
	s, ok := c.Get(contextKeySession).(*domain.Session)
	return s, ok
}
