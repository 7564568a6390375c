// Package errors defines the coded error taxonomy shared by the API client,
// the lifecycle controller and the HTTP layer.
//
// Callers match on codes with errors.Is against the sentinels:
//
//	if errors.Is(err, errors.ErrSessionExpired) {
//	    // credentials are gone, send the user to login
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Code is a machine-readable error code.
type Code string

const (
	CodeValidation           Code = "VALIDATION"
	CodeNetwork              Code = "NETWORK"
	CodeServer               Code = "SERVER"
	CodeSessionExpired       Code = "SESSION_EXPIRED"
	CodeInFlight             Code = "IN_FLIGHT"
	CodeConfirmationRequired Code = "CONFIRMATION_REQUIRED"
	CodeDeclined             Code = "DECLINED"
	CodeInvalidState         Code = "INVALID_STATE"
	CodeNotFound             Code = "NOT_FOUND"
	CodeInternal             Code = "INTERNAL"
)

// HTTPStatus maps a code to the status the local API answers with.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeSessionExpired:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeInFlight, CodeInvalidState:
		return http.StatusConflict
	case CodeConfirmationRequired:
		return http.StatusPreconditionRequired
	case CodeDeclined:
		return http.StatusForbidden
	case CodeNetwork, CodeServer:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a coded error with a message and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	// Status is the remote HTTP status for SERVER errors.
	Status int `json:"status,omitempty"`
	cause  error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error with the same code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the local API status for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithDetails returns a copy carrying details.
func (e *Error) WithDetails(details any) *Error {
	out := *e
	out.Details = details
	return &out
}

// WithCause returns a copy wrapping err.
func (e *Error) WithCause(err error) *Error {
	out := *e
	out.cause = err
	return &out
}

// Sentinels for errors.Is.
var (
	ErrValidation           = &Error{Code: CodeValidation, Message: "validation error"}
	ErrNetwork              = &Error{Code: CodeNetwork, Message: "network error"}
	ErrServer               = &Error{Code: CodeServer, Message: "server error"}
	ErrSessionExpired       = &Error{Code: CodeSessionExpired, Message: "session expired"}
	ErrInFlight             = &Error{Code: CodeInFlight, Message: "another change is in progress"}
	ErrConfirmationRequired = &Error{Code: CodeConfirmationRequired, Message: "confirmation required"}
	ErrDeclined             = &Error{Code: CodeDeclined, Message: "action not confirmed"}
	ErrInvalidState         = &Error{Code: CodeInvalidState, Message: "action not available"}
	ErrNotFound             = &Error{Code: CodeNotFound, Message: "not found"}
	ErrInternal             = &Error{Code: CodeInternal, Message: "internal error"}
)

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// ValidationWithDetails creates a validation error with per-field messages.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Network wraps a transport failure.
func Network(err error) *Error {
	return &Error{Code: CodeNetwork, Message: "network error", cause: err}
}

// Server creates an error for a non-2xx remote status.
func Server(status int, msg string) *Error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &Error{Code: CodeServer, Message: msg, Status: status}
}

// SessionExpired creates a session error for a 401/403 remote status.
func SessionExpired(status int) *Error {
	return &Error{Code: CodeSessionExpired, Message: "session expired", Status: status}
}

// InFlight reports a rejected concurrent mutation on id.
func InFlight(id string) *Error {
	return &Error{Code: CodeInFlight, Message: fmt.Sprintf("a change to %s is already in progress", id)}
}

// InvalidState reports an action that the current scope does not offer.
func InvalidState(msg string) *Error {
	return &Error{Code: CodeInvalidState, Message: msg}
}

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// Internal wraps an unexpected failure.
func Internal(msg string, err error) *Error {
	return &Error{Code: CodeInternal, Message: msg, cause: err}
}

// CodeOf returns the code of err, or CodeInternal for uncoded errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}
