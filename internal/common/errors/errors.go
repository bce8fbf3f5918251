// Package errors provides standardized error handling for the chat pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Transport failures, recovered locally without crashing the turn.
	ErrCodeCompletionTimeout ErrorCode = "COMPLETION_TIMEOUT"
	ErrCodeCompletionFailed  ErrorCode = "COMPLETION_FAILED"
	ErrCodeRepositoryFailed  ErrorCode = "REPOSITORY_QUERY_FAILED"

	// Malformed model output, recovered via the general fallback path.
	ErrCodeNoDirective        ErrorCode = "NO_DIRECTIVE_FOUND"
	ErrCodeDirectiveMalformed ErrorCode = "DIRECTIVE_MALFORMED"
	ErrCodeUnknownLabel       ErrorCode = "UNKNOWN_CLASSIFICATION_LABEL"

	// Contract violations are surfaced, never silently degraded.
	ErrCodeUnsupportedOperation ErrorCode = "UNSUPPORTED_OPERATION"

	// Boundary validation.
	ErrCodeInvalidMessage ErrorCode = "INVALID_MESSAGE"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinel errors used across pipeline packages.
var (
	ErrCompletionTimeout    = errors.New("COMPLETION_TIMEOUT")
	ErrCompletionFailed     = errors.New("COMPLETION_FAILED")
	ErrNoDirective          = errors.New("NO_DIRECTIVE_FOUND")
	ErrDirectiveMalformed   = errors.New("DIRECTIVE_MALFORMED")
	ErrUnsupportedOperation = errors.New("UNSUPPORTED_OPERATION")
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewCompletionTimeoutError creates a retryable upstream timeout error.
func NewCompletionTimeoutError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompletionTimeout,
		Message:   "Upstream completion call timed out",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCompletionFailedError creates a retryable upstream transport error.
func NewCompletionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCompletionFailed,
		Message:   "Upstream completion call failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewRepositoryFailedError creates a retryable backing-store error.
func NewRepositoryFailedError(collection string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeRepositoryFailed,
		Message:   "Backing store query failed",
		Details:   fmt.Sprintf("collection: %s, error: %s", collection, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewNoDirectiveError creates a non-retryable "no action present" error.
func NewNoDirectiveError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNoDirective,
		Message:   "Model output contains no operation directive",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDirectiveMalformedError creates a non-retryable directive parse error.
func NewDirectiveMalformedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDirectiveMalformed,
		Message:   "Operation directive could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnsupportedOperationError creates a non-retryable contract-violation error.
func NewUnsupportedOperationError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedOperation,
		Message:   "Operation name outside the supported set",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidMessageError creates a non-retryable boundary validation error.
func NewInvalidMessageError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidMessage,
		Message:   "Message is required and must be a non-empty string",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInternalError wraps an unexpected fault.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected internal error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Classification Helpers
// ==========================

// GetErrorCategory groups codes per the recovery taxonomy.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeCompletionTimeout, ErrCodeCompletionFailed, ErrCodeRepositoryFailed:
		return "transport"
	case ErrCodeNoDirective, ErrCodeDirectiveMalformed, ErrCodeUnknownLabel:
		return "malformed_output"
	case ErrCodeUnsupportedOperation:
		return "contract_violation"
	case ErrCodeInvalidMessage:
		return "input_validation"
	default:
		return "internal"
	}
}

// IsRecoverable reports whether the pipeline absorbs the error into a
// fallback path rather than surfacing it to the caller.
func IsRecoverable(code ErrorCode) bool {
	switch GetErrorCategory(code) {
	case "transport", "malformed_output":
		return true
	default:
		return false
	}
}
