// Package errors provides standardized error handling for the API surface.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidFilter    ErrorCode = "INVALID_FILTER"

	ErrCodeStoreUnavailable  ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeInsertFailed      ErrorCode = "INSERT_FAILED"
	ErrCodeAggregationFailed ErrorCode = "AGGREGATION_FAILED"

	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// --- Constructors ---

// NewValidationFailedError creates a validation error, rejected before any
// store interaction.
func NewValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input validation failed",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFilterError creates an error for a query filter outside the
// allowed enum.
func NewInvalidFilterError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFilter,
		Message:   "Invalid filter value",
		Details:   details,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreUnavailableError creates a connectivity error; no partial results
// accompany it.
func NewStoreUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreUnavailable,
		Message:   "Document store unavailable",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// NewInsertFailedError creates an error for a failed document insert.
func NewInsertFailedError(collection string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInsertFailed,
		Message:   "Document insert failed",
		Details:   fmt.Sprintf("collection: %s, error: %s", collection, err.Error()),
		Timestamp: time.Now().UTC(),
	}
}

// NewAggregationFailedError creates an error for a failed grouping query.
func NewAggregationFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeAggregationFailed,
		Message:   "Interaction aggregation failed",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFoundError creates an error for an absent referenced identifier.
func NewNotFoundError(resource, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   fmt.Sprintf("id: %s", id),
		Timestamp: time.Now().UTC(),
	}
}

// NewNotificationSendFailedError creates an error for a failed best-effort
// notification. Callers log it and move on.
func NewNotificationSendFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   "Notification delivery failed",
		Details:   err.Error(),
		Timestamp: time.Now().UTC(),
	}
}

// --- HTTP mapping ---

// HTTPStatus maps an error code to the response status for the API boundary.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeInvalidFilter:
		return http.StatusBadRequest
	case ErrCodeStoreUnavailable, ErrCodeInsertFailed, ErrCodeAggregationFailed:
		return http.StatusServiceUnavailable
	case ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// CodeOf extracts the ErrorCode from err, or empty when err is not a
// StandardError.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ""
}

// IsCode reports whether err is a StandardError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
