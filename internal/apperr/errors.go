package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindValidation Kind = iota
	KindAuthenticationRequired
	KindForbidden
	KindEmptyCart
	KindConfiguration
	KindNotFound
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "VALIDATION"
	case KindAuthenticationRequired:
		return "AUTHENTICATION_REQUIRED"
	case KindForbidden:
		return "FORBIDDEN"
	case KindEmptyCart:
		return "EMPTY_CART"
	case KindConfiguration:
		return "CONFIGURATION"
	case KindNotFound:
		return "NOT_FOUND"
	case KindPersistence:
		return "PERSISTENCE"
	default:
		return "UNKNOWN"
	}
}

// Status maps a kind to the HTTP status used in the error envelope.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindEmptyCart:
		return http.StatusBadRequest
	case KindAuthenticationRequired:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is the typed failure every core operation returns.
// Message is safe to show to a caller; Err carries the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind so callers can write errors.Is(err, apperr.ErrEmptyCart).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Kind-only sentinels for errors.Is.
var (
	ErrValidation             = &Error{Kind: KindValidation}
	ErrAuthenticationRequired = &Error{Kind: KindAuthenticationRequired}
	ErrForbidden              = &Error{Kind: KindForbidden}
	ErrEmptyCart              = &Error{Kind: KindEmptyCart}
	ErrConfiguration          = &Error{Kind: KindConfiguration}
	ErrNotFound               = &Error{Kind: KindNotFound}
	ErrPersistence            = &Error{Kind: KindPersistence}
)

func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func AuthenticationRequired(message string) *Error {
	return &Error{Kind: KindAuthenticationRequired, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

func EmptyCart() *Error {
	return &Error{Kind: KindEmptyCart, Message: "Cart is empty"}
}

func Configuration(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

// Persistence wraps a store failure. The message stays generic; the cause is logged, not shown.
func Persistence(op string, err error) *Error {
	return &Error{Kind: KindPersistence, Message: "Server error", Err: fmt.Errorf("%s: %w", op, err)}
}

// KindOf reports the kind of err, treating anything untyped as a persistence failure.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindPersistence
}

// PublicMessage is the text placed in the {"message": ...} envelope.
func PublicMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Server error"
}
