// Package errors provides the domain error taxonomy shared by services and
// transport. Services wrap causes with a stable code; the HTTP layer maps
// codes to status responses without inspecting error strings.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for callers and for HTTP translation.
type Code string

const (
	// CodeValidation marks user-correctable rejections (bad content, failed
	// verification, zero credit awards). Nothing is persisted.
	CodeValidation Code = "validation"
	// CodeInvalidInput marks malformed request fields.
	CodeInvalidInput Code = "invalid_input"
	// CodeBadRequest marks structurally broken requests.
	CodeBadRequest Code = "bad_request"
	// CodeNotFound marks missing records.
	CodeNotFound Code = "not_found"
	// CodeUnauthorized marks missing or bad caller identity.
	CodeUnauthorized Code = "unauthorized"
	// CodeDependency marks failures of external collaborators
	// (transcription, extraction, history store).
	CodeDependency Code = "dependency"
	// CodeInvariantViolation marks states that should be impossible; they are
	// rejected rather than crashed on.
	CodeInvariantViolation Code = "invariant_violation"
	// CodeInternal marks everything else.
	CodeInternal Code = "internal"
)

// Error is the concrete domain error type.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a domain error with no underlying cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause. A nil cause
// returns nil so call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the domain code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf extracts the domain message from err, or empty for foreign errors.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// ToHTTPStatus maps a domain code to an HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusUnprocessableEntity
	case CodeInvalidInput, CodeBadRequest:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeDependency:
		return http.StatusBadGateway
	case CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
