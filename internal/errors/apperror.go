package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error kinds. Every *AppError wraps exactly one of these, so callers can
// test the category with errors.Is regardless of the concrete error.
var (
	ErrValidation = stderrors.New("validation error")
	ErrConflict   = stderrors.New("conflict")
	ErrAuth       = stderrors.New("authentication error")
	ErrPermission = stderrors.New("permission denied")
	ErrNotFound   = stderrors.New("not found")
)

// AppError is a typed failure raised at the domain-service boundary.
// Anything that is not an *AppError is treated as an internal error.
type AppError struct {
	Err     error             // kind sentinel
	Code    string            // codes.go
	Message string            // safe to show to the caller
	Fields  map[string]string // per-field validation messages
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(kind error, code, format string, args ...interface{}) *AppError {
	return &AppError{Err: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Validation(code, format string, args ...interface{}) *AppError {
	return newAppError(ErrValidation, code, format, args...)
}

// ValidationFields reports several field-level violations at once.
func ValidationFields(message string, fields map[string]string) *AppError {
	return &AppError{Err: ErrValidation, Code: ValidationInvalidInput, Message: message, Fields: fields}
}

func Conflict(code, format string, args ...interface{}) *AppError {
	return newAppError(ErrConflict, code, format, args...)
}

func Auth(code, format string, args ...interface{}) *AppError {
	return newAppError(ErrAuth, code, format, args...)
}

func Permission(code, format string, args ...interface{}) *AppError {
	return newAppError(ErrPermission, code, format, args...)
}

func NotFoundError(code, format string, args ...interface{}) *AppError {
	return newAppError(ErrNotFound, code, format, args...)
}

// StatusOf maps an error to the HTTP status of its kind.
func StatusOf(err error) int {
	switch {
	case stderrors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case stderrors.Is(err, ErrConflict):
		return http.StatusConflict
	case stderrors.Is(err, ErrAuth):
		return http.StatusUnauthorized
	case stderrors.Is(err, ErrPermission):
		return http.StatusForbidden
	case stderrors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// IsInternal reports whether err carries no domain kind.
func IsInternal(err error) bool {
	return StatusOf(err) == http.StatusInternalServerError
}
