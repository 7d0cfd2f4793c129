// Package domainerrors defines coded domain errors for the redemption
// pipeline. Stores return sentinel errors (pkg/platform/sentinel); services
// translate them into coded errors; the transport layer translates codes into
// HTTP statuses. Handlers never inspect raw store errors.
package domainerrors

import (
	"errors"
	"net/http"
)

// Code classifies a domain error for transport mapping and operator display.
type Code string

const (
	CodeBadRequest         Code = "bad_request"
	CodeUnauthorized       Code = "unauthorized"
	CodeNotFound           Code = "not_found"
	CodeUnresolvedCode     Code = "unresolved_code"
	CodeIneligible         Code = "ineligible"
	CodeDuplicate          Code = "duplicate_redemption"
	CodeNoEligibleAbstract Code = "no_eligible_abstract"
	CodeGenerationFailed   Code = "generation_failed"
	CodeUnavailable        Code = "unavailable"
	CodeInternal           Code = "internal"
)

// Error is a domain error with a stable code and an operator-facing message.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded domain error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates a coded domain error preserving the underlying cause for logs.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain error code to an HTTP status.
// CodeDuplicate maps to 409 deliberately: a duplicate is a confirmation
// prompt for the operator, not a server fault.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound, CodeUnresolvedCode:
		return http.StatusNotFound
	case CodeIneligible:
		return http.StatusForbidden
	case CodeDuplicate:
		return http.StatusConflict
	case CodeNoEligibleAbstract:
		return http.StatusUnprocessableEntity
	case CodeGenerationFailed:
		return http.StatusBadGateway
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
