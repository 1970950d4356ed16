package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers and for the HTTP layer.
type Kind string

const (
	KindValidation             Kind = "validation_error"
	KindNotFound               Kind = "not_found"
	KindInsufficientStock      Kind = "insufficient_stock"
	KindInvalidStateTransition Kind = "invalid_state_transition"
	KindUnauthorized           Kind = "unauthorized"
	KindConflict               Kind = "conflict"
	KindInternal               Kind = "internal"
)

// Error carries a Kind and a client-safe message. Err, when set, is the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error of the given kind around cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: cause}
}

func Validation(format string, args ...any) *Error {
	return New(KindValidation, format, args...)
}

// ValidationFields reports a validation failure with per-field messages.
func ValidationFields(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

func NotFound(resource, id string) *Error {
	return New(KindNotFound, "%s with ID %s not found", resource, id)
}

func InsufficientStock(product string, requested, available int) *Error {
	return New(KindInsufficientStock, "insufficient stock for product %s (requested: %d, available: %d)", product, requested, available)
}

func InvalidTransition(orderID string, from, to fmt.Stringer) *Error {
	return New(KindInvalidStateTransition, "order %s cannot move from %s to %s", orderID, from, to)
}

func Unauthorized(message string, cause error) *Error {
	return Wrap(KindUnauthorized, cause, "%s", message)
}

func Conflict(format string, args ...any) *Error {
	return New(KindConflict, format, args...)
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	ok := errors.As(err, &appErr)
	return appErr, ok
}

// HTTPStatus maps a kind to the status code the API layer responds with.
// Business rule violations are client errors.
func HTTPStatus(kind Kind) int {
	switch kind {
	case KindValidation, KindInsufficientStock, KindInvalidStateTransition:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
