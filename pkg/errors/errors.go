// Package errors defines the typed failure taxonomy shared by every gothink
// component. Callers usually import it aliased, e.g. apperr.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies a failure for retry and transport-mapping decisions.
type Kind string

const (
	KindValidation     Kind = "VALIDATION"
	KindSecurity       Kind = "SECURITY"
	KindRateLimit      Kind = "RATE_LIMIT"
	KindState          Kind = "STATE"
	KindBusinessLogic  Kind = "BUSINESS_LOGIC"
	KindCircuitBreaker Kind = "CIRCUIT_BREAKER"
)

// AppError is a typed, timestamped failure value. The outer transport layer
// serializes it; internal layers propagate it unchanged.
type AppError struct {
	Kind      Kind           `json:"kind"`
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	Status    int            `json:"-"`
	Retryable bool           `json:"retryable"`
	Timestamp time.Time      `json:"timestamp"`
	Cause     error          `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s [%s]: %s: %v", e.Kind, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s [%s]: %s", e.Kind, e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithDetails attaches structured context to the error.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// WithDetail attaches a single key/value detail.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any, 1)
	}
	e.Details[key] = value
	return e
}

// WithCause wraps an underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

func newError(kind Kind, code, message string, status int, retryable bool) *AppError {
	return &AppError{
		Kind:      kind,
		Code:      code,
		Message:   message,
		Status:    status,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidation reports malformed or oversized input. Retryable after the
// caller fixes the input.
func NewValidation(code, message string) *AppError {
	return newError(KindValidation, code, message, http.StatusBadRequest, true)
}

// NewSecurity reports a content-policy violation. The same input will always
// fail, so it is not retryable.
func NewSecurity(code, message string) *AppError {
	return newError(KindSecurity, code, message, http.StatusForbidden, false)
}

// NewRateLimit reports an exhausted per-session quota. Retryable after backoff.
func NewRateLimit(code, message string) *AppError {
	return newError(KindRateLimit, code, message, http.StatusTooManyRequests, true)
}

// NewState reports a violated internal invariant. Not retryable; it indicates
// a bug.
func NewState(code, message string) *AppError {
	return newError(KindState, code, message, http.StatusInternalServerError, false)
}

// NewBusinessLogic reports a violated semantic rule, such as revising a
// thought that does not exist.
func NewBusinessLogic(code, message string) *AppError {
	return newError(KindBusinessLogic, code, message, http.StatusUnprocessableEntity, false)
}

// NewCircuitBreaker reports a tripped breaker in front of the engine.
// Retryable after the breaker resets.
func NewCircuitBreaker(code, message string) *AppError {
	return newError(KindCircuitBreaker, code, message, http.StatusServiceUnavailable, true)
}

// As extracts an AppError from an error chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// IsSecurity reports whether err is a content-policy failure.
func IsSecurity(err error) bool { return IsKind(err, KindSecurity) }

// IsRateLimit reports whether err is a quota failure.
func IsRateLimit(err error) bool { return IsKind(err, KindRateLimit) }

// IsState reports whether err is an internal invariant failure.
func IsState(err error) bool { return IsKind(err, KindState) }

// IsBusinessLogic reports whether err is a semantic-rule failure.
func IsBusinessLogic(err error) bool { return IsKind(err, KindBusinessLogic) }

// IsCircuitBreaker reports whether err is a tripped-breaker failure.
func IsCircuitBreaker(err error) bool { return IsKind(err, KindCircuitBreaker) }

// StatusOf returns the HTTP-like status for err, defaulting to 500 for
// untyped errors.
func StatusOf(err error) int {
	if appErr, ok := As(err); ok && appErr.Status != 0 {
		return appErr.Status
	}
	return http.StatusInternalServerError
}

// Wrap adds context to err. An existing AppError keeps its kind and gains a
// message prefix; anything else becomes a state error with err as cause.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		appErr.Message = message + ": " + appErr.Message
		return appErr
	}
	return NewState("WRAPPED_ERROR", message).WithCause(err)
}
