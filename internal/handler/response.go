package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/sumire/managers/internal/domain"
)

// APIError is the body of every error response.
type APIError struct {
	Message string       `json:"error"`
	Code    string       `json:"code"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a field-level validation error.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HTTPErrorHandler is the global error handler for echo. Errors on the OAuth routes
// are written as plain text since the browser lands there directly.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, apiErr := mapError(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", status,
			"error", err,
		)
	}

	var writeErr error
	if strings.HasPrefix(c.Request().URL.Path, authPrefix+"/") {
		writeErr = c.String(status, apiErr.Message)
	} else {
		writeErr = c.JSON(status, apiErr)
	}
	if writeErr != nil {
		slog.Error("failed to send error response", "error", writeErr)
	}
}

func mapError(err error) (int, APIError) {
	// Handle echo's own HTTP errors (404, 405, etc.)
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, APIError{
			Code:    http.StatusText(echoErr.Code),
			Message: msg,
		}
	}

	var upErr *domain.UpstreamError
	upstreamCode := ""
	if errors.As(err, &upErr) {
		upstreamCode = upErr.Code
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, APIError{
			Code:    "unauthenticated",
			Message: "Not authenticated",
		}
	case errors.Is(err, domain.ErrMissingCode):
		return http.StatusBadRequest, APIError{
			Code:    "missing_code",
			Message: "Missing authorization code",
		}
	case errors.Is(err, domain.ErrUpstreamAuth):
		return http.StatusBadRequest, APIError{
			Code:    "oauth_error",
			Message: "Slack OAuth error: " + orDefault(upstreamCode, "invalid_state"),
		}
	case errors.Is(err, domain.ErrUpstreamExchange):
		return http.StatusBadRequest, APIError{
			Code:    "oauth_exchange_failed",
			Message: "OAuth failed: " + orDefault(upstreamCode, "token exchange error"),
		}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, APIError{
			Code:    "user_not_found",
			Message: "User not found",
		}
	case errors.Is(err, domain.ErrUpstreamRead):
		return http.StatusInternalServerError, APIError{
			Code:    "upstream_read_failed",
			Message: "Failed to fetch profile",
		}
	case errors.Is(err, domain.ErrUpstreamWrite):
		if upstreamCode != "" {
			return http.StatusBadRequest, APIError{
				Code:    "upstream_write_rejected",
				Message: upstreamCode,
			}
		}
		return http.StatusInternalServerError, APIError{
			Code:    "upstream_write_failed",
			Message: "Failed to update profile",
		}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, APIError{
			Code:    "conflict",
			Message: "The manager list changed since it was read",
		}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, APIError{
			Code:    "invalid_input",
			Message: "The request body is invalid",
		}
	default:
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return http.StatusBadRequest, APIError{
				Code:    "validation_error",
				Message: validationErr.Message,
				Details: []FieldError{
					{Field: validationErr.Field, Message: validationErr.Message},
				},
			}
		}

		slog.Error("unhandled error", "error", err)
		return http.StatusInternalServerError, APIError{
			Code:    "internal_error",
			Message: "An unexpected error occurred",
		}
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
