// Package apperr defines the error taxonomy shared by every feature.
// Usecases return *Error values (usually package-level sentinels) and the
// transport layer maps their Kind onto an HTTP status.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an error by who is at fault and how it should be reported.
type Kind int

const (
	// KindInternal is an unexpected failure. Its message is never shown to clients.
	KindInternal Kind = iota
	// KindValidation is malformed or out-of-range input.
	KindValidation
	// KindAuthentication is a missing, invalid or expired credential.
	KindAuthentication
	// KindAuthorization is a valid identity acting on something it does not own.
	KindAuthorization
	// KindNotFound is a missing resource.
	KindNotFound
	// KindConflict is a uniqueness violation such as a duplicate email.
	KindConflict
	// KindTransport is a downstream dependency failure, e.g. email dispatch.
	KindTransport
)

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindTransport:
		return "transport"
	default:
		return "internal"
	}
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified application error.
// Field is set only for validation errors and names the offending input field.
type Error struct {
	Kind    Kind
	Message string
	Field   string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation returns a validation error for field.
func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message}
}

// Authentication returns an authentication error.
func Authentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Message: message}
}

// Authorization returns an authorization error.
func Authorization(message string) *Error {
	return &Error{Kind: KindAuthorization, Message: message}
}

// NotFound returns a not-found error.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Conflict returns a conflict error.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Transport returns a downstream-failure error.
func Transport(message string) *Error {
	return &Error{Kind: KindTransport, Message: message}
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal when err is not classified.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindInternal
}

// StatusOf returns the HTTP status code for err.
func StatusOf(err error) int {
	return KindOf(err).Status()
}
