package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated  = errors.New("not authenticated")
	ErrSessionNotFound  = errors.New("session not found")
	ErrMissingCode      = errors.New("missing authorization code")
	ErrUpstreamAuth     = errors.New("slack oauth error")
	ErrUpstreamExchange = errors.New("oauth exchange failed")
	ErrUserNotFound     = errors.New("user not found")
	ErrUpstreamRead     = errors.New("failed to fetch profile")
	ErrUpstreamWrite    = errors.New("failed to update profile")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("resource conflict")
)

// ValidationError represents a field-level validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// UpstreamError is a failed call to Slack. Kind is one of the Err* sentinels above,
// Code is the Slack "error" value when Slack answered with ok:false and is empty on
// transport failures.
type UpstreamError struct {
	Kind error
	Code string
	Err  error
}

func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%v: %s", e.Kind, e.Code)
	}
	if e.Err != nil {
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	}
	return e.Kind.Error()
}

func (e *UpstreamError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
