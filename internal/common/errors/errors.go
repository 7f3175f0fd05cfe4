// internal/common/errors/errors.go

// Package errors provides the standardized error taxonomy used across the
// portal: validation, not-found, downstream and store-unavailable.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies an error for HTTP mapping and logging.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindDownstream  Kind = "downstream"
	KindUnavailable Kind = "unavailable"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeDuplicateUserID      ErrorCode = "DUPLICATE_USER_ID"
	ErrCodeProcessorRequired    ErrorCode = "PROCESSOR_REQUIRED"
	ErrCodeConfirmationRequired ErrorCode = "CONFIRMATION_REQUIRED"
	ErrCodeTransitionRejected   ErrorCode = "STATUS_TRANSITION_REJECTED"
	ErrCodeSubmissionClosed     ErrorCode = "SUBMISSION_CLOSED"

	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeAddressLookupFailed    ErrorCode = "ADDRESS_LOOKUP_FAILED"
	ErrCodeSearchFailed           ErrorCode = "SEARCH_FAILED"

	ErrCodeStoreUnavailable  ErrorCode = "STORE_UNAVAILABLE"
	ErrCodeSearchUnavailable ErrorCode = "SEARCH_UNAVAILABLE"
)

// StandardError is a structured application error.
type StandardError struct {
	Kind      Kind      `json:"kind"`
	Code      ErrorCode `json:"code"`
	Message   string    `json:"message"`
	Details   string    `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	wrapped   error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error { return e.wrapped }

// NewValidation creates a validation error surfaced to the caller with a
// human-readable reason. No partial write may have happened.
func NewValidation(code ErrorCode, message string) *StandardError {
	return &StandardError{
		Kind:      KindValidation,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
}

// NewNotFound creates a not-found error for the given resource and id.
func NewNotFound(resource, id string) *StandardError {
	return &StandardError{
		Kind:      KindNotFound,
		Code:      ErrCodeNotFound,
		Message:   fmt.Sprintf("%s not found", resource),
		Details:   id,
		Timestamp: time.Now().UTC(),
	}
}

// NewDownstream creates a non-fatal integration failure. The primary write, if
// any, is already committed and stays committed.
func NewDownstream(code ErrorCode, message string, err error) *StandardError {
	e := &StandardError{
		Kind:      KindDownstream,
		Code:      code,
		Message:   message,
		Timestamp: time.Now().UTC(),
		wrapped:   err,
	}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// NewUnavailable wraps a store failure as a generic unavailability error.
func NewUnavailable(code ErrorCode, err error) *StandardError {
	e := &StandardError{
		Kind:      KindUnavailable,
		Code:      code,
		Message:   "backing store unavailable",
		Timestamp: time.Now().UTC(),
		wrapped:   err,
	}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// AsStandard extracts a *StandardError from err, if there is one.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Kind == KindValidation
	}
	return false
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Kind == KindNotFound
	}
	return false
}
