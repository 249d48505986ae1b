// Package respond implements the uniform response envelope. Every response,
// success or failure, carries an RFC3339 timestamp; failures carry a machine
// readable error code and a human readable message.
package respond

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Machine-readable error codes surfaced to callers.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeInternal     = "INTERNAL_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *APIError   `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// APIError carries a machine code and a human-readable message. Details holds
// the per-field error list for validation failures.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// OK writes a success envelope with the given status and payload.
func OK(c echo.Context, status int, data interface{}) error {
	return c.JSON(status, Envelope{
		Success:   true,
		Data:      data,
		Timestamp: now(),
	})
}

// Error writes a failure envelope.
func Error(c echo.Context, status int, code, message string) error {
	return c.JSON(status, Envelope{
		Success:   false,
		Error:     &APIError{Code: code, Message: message},
		Timestamp: now(),
	})
}

// ErrorWithDetails writes a failure envelope carrying structured details,
// typically the per-field error list of a rejected submission.
func ErrorWithDetails(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, Envelope{
		Success:   false,
		Error:     &APIError{Code: code, Message: message, Details: details},
		Timestamp: now(),
	})
}

// ValidationError writes a 400 failure envelope with code VALIDATION_ERROR.
func ValidationError(c echo.Context, message string, details interface{}) error {
	return ErrorWithDetails(c, http.StatusBadRequest, CodeValidation, message, details)
}

// InternalError writes a 500 failure envelope with code INTERNAL_ERROR. The
// underlying cause is never surfaced to the caller; log it instead.
func InternalError(c echo.Context) error {
	return Error(c, http.StatusInternalServerError, CodeInternal, "an internal error occurred")
}

// NotFound writes a 404 failure envelope.
func NotFound(c echo.Context, message string) error {
	return Error(c, http.StatusNotFound, CodeNotFound, message)
}
