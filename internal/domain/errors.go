package domain

import (
	"fmt"
	"strings"
)

// ParseError reports malformed configuration syntax. The document could not
// be read at all; nothing else can be diagnosed past this point.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error at line %d column %d: %s", e.Line, e.Column, e.Msg)
	}
	return fmt.Sprintf("parse error: %s", e.Msg)
}

// FieldError is a single semantic problem found during validation, scoped to
// the configuration key it concerns.
type FieldError struct {
	Field string
	Msg   string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Msg
}

// ValidationErrors collects every semantic problem found in one validation
// pass, so operators see all of them at once instead of fixing one per run.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return fmt.Sprintf("%d configuration error(s): %s", len(v), strings.Join(msgs, "; "))
}

// Add appends a field-scoped error.
func (v *ValidationErrors) Add(field, format string, args ...any) {
	*v = append(*v, FieldError{Field: field, Msg: fmt.Sprintf(format, args...)})
}

// AppError is the base error type surfaced over the HTTP API.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard error constructors.

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id), Status: 404}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg, Status: 400}
}

func ErrUnauthorized(msg string) *AppError {
	return &AppError{Code: "UNAUTHORIZED", Message: msg, Status: 401}
}

func ErrForbidden(msg string) *AppError {
	return &AppError{Code: "FORBIDDEN", Message: msg, Status: 403}
}

// ErrConfigRejected wraps a failed load/reload; Status 422 keeps it distinct
// from malformed requests.
func ErrConfigRejected(cause error) *AppError {
	return &AppError{Code: "CONFIG_REJECTED", Message: cause.Error(), Status: 422, Cause: cause}
}

func ErrInternal(msg string, cause error) *AppError {
	return &AppError{Code: "INTERNAL_ERROR", Message: msg, Status: 500, Cause: cause}
}
