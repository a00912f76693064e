package api

import (
	"errors"
	"fmt"
)

// Sentinel errors reachable through errors.Is on every *Error.
var (
	// ErrUnauthorized is returned when the backend rejects the bearer token.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden is returned when the account lacks the required role.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned when a resource or endpoint does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a resource already exists.
	ErrConflict = errors.New("conflict")
	// ErrRejected is returned for any other 4xx response.
	ErrRejected = errors.New("request rejected")
	// ErrUnavailable is returned for transport failures and 5xx responses.
	ErrUnavailable = errors.New("backend unavailable")
	// ErrRenewUnsupported is returned by Renew; the backend has no renew endpoint.
	ErrRenewUnsupported = errors.New("Renew endpoint is not available on this backend")
)

// Error is a failed call reduced to one readable message. The backend body
// is never exposed beyond its message field.
type Error struct {
	Status  int // HTTP status, 0 for transport failures
	Message string
	err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.err }

// ValidationError is a local, pre-flight rejection. No request was sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// toError translates a failure into an *Error carrying the backend message,
// or fallback when the backend gave none. Validation errors pass through.
func toError(err error, fallback string) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	var ae *Error
	if errors.As(err, &ae) {
		if ae.Message != "" {
			return ae
		}
		return &Error{Status: ae.Status, Message: fallback, err: ae.err}
	}
	if errors.Is(err, ErrRenewUnsupported) {
		return err
	}
	return &Error{Message: fallback, err: fmt.Errorf("%w: %w", ErrUnavailable, err)}
}

// IsUnauthorized reports whether err is an authentication rejection.
func IsUnauthorized(err error) bool { return errors.Is(err, ErrUnauthorized) }

// IsValidation reports whether err was raised locally before any request.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
