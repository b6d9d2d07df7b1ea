package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sumire/managers/internal/domain"
)

const (
	sessionCookieName = "session"
	stateCookieName   = "oauth_state"
	stateCookieMaxAge = 600
)

// SessionCookies issues and reads the signed session cookie. The cookie carries only
// the session ID, as the subject of an HS256 token expiring with the session.
type SessionCookies struct {
	secret []byte
	now    func() time.Time
}

// NewSessionCookies creates a SessionCookies signing with secret.
func NewSessionCookies(secret string) *SessionCookies {
	return &SessionCookies{secret: []byte(secret), now: time.Now}
}

// Issue sets the session cookie for s.
func (sc *SessionCookies) Issue(w http.ResponseWriter, s *domain.Session) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   s.ID,
		IssuedAt:  jwt.NewNumericDate(s.CreatedAt),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	})
	signed, err := token.SignedString(sc.secret)
	if err != nil {
		return fmt.Errorf("sign session cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   int(s.ExpiresAt.Sub(sc.now()).Seconds()),
	})
	return nil
}

// SessionID returns the session ID from r's cookie. Missing, tampered or expired
// cookies yield domain.ErrUnauthenticated.
func (sc *SessionCookies) SessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", domain.ErrUnauthenticated
	}
	var claims jwt.RegisteredClaims
	_, err = jwt.ParseWithClaims(cookie.Value, &claims, func(*jwt.Token) (any, error) {
		return sc.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(sc.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return "", domain.ErrUnauthenticated
	}
	return claims.Subject, nil
}

// Clear expires the session cookie in the browser.
func (sc *SessionCookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteNoneMode,
		MaxAge:   -1,
	})
}

func setStateCookie(w http.ResponseWriter, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   stateCookieMaxAge,
	})
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

var errStateMismatch = errors.New("state mismatch")

func validateOAuthState(r *http.Request) error {
	cookie, err := r.Cookie(stateCookieName)
	if err != nil {
		return fmt.Errorf("missing %s cookie", stateCookieName)
	}

	queryState := r.URL.Query().Get("state")
	if queryState == "" || queryState != cookie.Value {
		return errStateMismatch
	}

	return nil
}
