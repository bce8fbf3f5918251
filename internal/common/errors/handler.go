// internal/common/errors/handler.go
package errors

import (
	"errors"
	"net/http"
	"time"
)

// ErrorHandler maps pipeline errors to HTTP responses with standardized logging.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleTurnError normalizes err, logs it, and returns the HTTP status and
// user-facing message for the error envelope.
func (h *ErrorHandler) HandleTurnError(turnID string, err error) (int, string) {
	stdErr := h.normalizeError(err)

	h.logger.Error("turn failed", map[string]interface{}{
		"turnId":        turnID,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})

	return HTTPStatus(stdErr.Code), publicMessage(stdErr.Code)
}

// normalizeError ensures we always have a StandardError.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr
	}

	switch {
	case errors.Is(err, ErrUnsupportedOperation):
		return &StandardError{
			Code:      ErrCodeUnsupportedOperation,
			Message:   "Operation name outside the supported set",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	default:
		return &StandardError{
			Code:      ErrCodeInternal,
			Message:   "Unexpected error",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now().UTC(),
		}
	}
}

// HTTPStatus maps an error code to the status of the error envelope.
func HTTPStatus(code ErrorCode) int {
	if code == ErrCodeInvalidMessage {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func publicMessage(code ErrorCode) string {
	if code == ErrCodeInvalidMessage {
		return "Message is required and must be a non-empty string"
	}
	return "I apologize, but I encountered an error while processing your request. Please try again."
}
