package model

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// ErrorCode represents a structured error code in the local JSON envelope.
type ErrorCode string

const (
	ErrValidation   ErrorCode = "VALIDATION_ERROR"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrForbidden    ErrorCode = "FORBIDDEN"
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
)

// GenericFailureMessage is shown when the API gives no usable message.
const GenericFailureMessage = "The request failed. Please try again."

// APIError is a failure reported by the logistics REST API, or produced by the
// dashboard's own JSON endpoints.
type APIError struct {
	Status  int                 `json:"-"`
	Code    ErrorCode           `json:"code,omitempty"`
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func (e *APIError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("api error (HTTP %d): %s", e.Status, e.UserMessage())
	}
	return fmt.Sprintf("%s: %s", e.Code, e.UserMessage())
}

// UserMessage returns the payload message, or a generic one when empty.
func (e *APIError) UserMessage() string {
	if e == nil || e.Message == "" {
		return GenericFailureMessage
	}
	return e.Message
}

// FieldErrors flattens per-field messages into a stable list.
func (e *APIError) FieldErrors() []FieldError {
	if e == nil {
		return nil
	}
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	var out []FieldError
	for _, f := range fields {
		for _, msg := range e.Errors[f] {
			out = append(out, FieldError{Field: f, Message: msg})
		}
	}
	return out
}

// FieldError describes a validation error on a specific field.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Status:  http.StatusNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}

// ErrorMessage extracts a user-facing message from err.
func ErrorMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return GenericFailureMessage
}

// IsUnauthorized reports whether err is an HTTP 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}
