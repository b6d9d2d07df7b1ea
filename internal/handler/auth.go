package handler

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/managers/internal/domain"
	"github.com/sumire/managers/internal/service"
)

// AuthHandler handles the Slack sign-in flow and logout.
type AuthHandler struct {
	auth    *service.AuthService
	cookies *SessionCookies
	appURL  string
}

// NewAuthHandler creates a new AuthHandler. appURL is where the browser is sent after
// signing in.
func NewAuthHandler(auth *service.AuthService, cookies *SessionCookies, appURL string) *AuthHandler {
	return &AuthHandler{auth: auth, cookies: cookies, appURL: appURL}
}

// AuthorizeStart redirects the user to Slack's OAuth consent page.
func (h *AuthHandler) AuthorizeStart(c echo.Context) error {
	state, err := generateState()
	if err != nil {
		return err
	}
	setStateCookie(c.Response(), state)
	return c.Redirect(http.StatusFound, h.auth.AuthorizeURL(state))
}

// Callback handles the OAuth callback from Slack.
func (h *AuthHandler) Callback(c echo.Context) error {
	q := c.Request().URL.Query()
	code, oauthErr := q.Get("code"), q.Get("error")

	slog.Info("oauth callback received",
		"code_present", code != "",
		"error", oauthErr,
	)

	if oauthErr == "" && code != "" {
		if err := validateOAuthState(c.Request()); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrUpstreamAuth, err)
		}
	}
	clearStateCookie(c.Response())

	session, err := h.auth.CompleteAuthorization(c.Request().Context(), code, oauthErr)
	if err != nil {
		slog.Warn("oauth callback failed", "error", err)
		return err
	}

	if err := h.cookies.Issue(c.Response(), session); err != nil {
		return err
	}
	slog.Info("session created", "user_id", session.UserID)
	return c.Redirect(http.StatusFound, h.appURL)
}

// Logout destroys the caller's session, if any, and returns to the root page.
func (h *AuthHandler) Logout(c echo.Context) error {
	if id, err := h.cookies.SessionID(c.Request()); err == nil {
		if err := h.auth.EndSession(c.Request().Context(), id); err != nil {
			slog.Error("failed to end session", "error", err)
		}
	}
	h.cookies.Clear(c.Response())
	return c.Redirect(http.StatusFound, "/")
}

func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
