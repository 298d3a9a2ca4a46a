package models

import (
	"errors"
	"fmt"
)

// Error kinds used in API responses and internal error handling.
const (
	ErrCodeAuthConfig    = "AUTH_CONFIG"
	ErrCodeNavigation    = "NAVIGATION_FAILED"
	ErrCodeTransport     = "TRANSPORT_FAILED"
	ErrCodeEmptyResponse = "EMPTY_RESPONSE"
	ErrCodeInvalidInput  = "INVALID_INPUT"
	ErrCodeBrowserCrash  = "BROWSER_CRASH"

	// Codes produced by the HTTP middleware, never by the pipeline.
	ErrCodeRateLimited  = "RATE_LIMITED"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeNotFound     = "NOT_FOUND"
)

// Sentinels for errors.Is. Matching compares the Kind only.
var (
	ErrAuthConfig    = &Error{Kind: ErrCodeAuthConfig}
	ErrNavigation    = &Error{Kind: ErrCodeNavigation}
	ErrTransport     = &Error{Kind: ErrCodeTransport}
	ErrEmptyResponse = &Error{Kind: ErrCodeEmptyResponse}
	ErrInvalidInput  = &Error{Kind: ErrCodeInvalidInput}
	ErrBrowserCrash  = &Error{Kind: ErrCodeBrowserCrash}
)

// ErrorDetail is the structured error in API responses.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error is the classified error surfaced by the extraction and generation
// components. It supports errors.Is against the sentinels above and
// error wrapping via Unwrap.
type Error struct {
	Kind    string
	Message string

	// Status is the upstream HTTP status for transport errors, 0 otherwise.
	Status int

	// Body is the raw upstream response body, when one was received.
	Body string

	Err error // wrapped original error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// NewError creates a new classified Error.
func NewError(kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *Error) ToDetail() *ErrorDetail {
	return &ErrorDetail{Code: e.Kind, Message: e.Message}
}

// KindOf returns the kind of a classified error, or ErrCodeInternal for
// anything else. A nil error has no kind.
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrCodeInternal
}
