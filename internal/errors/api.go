package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// Predefined error types for common scenarios
var (
	ErrInvalidRequest = New(http.StatusBadRequest, "INVALID_REQUEST", "Invalid request format")
	ErrNotFound       = New(http.StatusNotFound, "NOT_FOUND", "Resource not found")
	ErrInternalServer = New(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error")
)

// SeriesNotFoundError creates a not found error for an unknown KPI series
func SeriesNotFoundError(name string) *APIError {
	return &APIError{
		StatusCode: http.StatusNotFound,
		ErrorCode:  "SERIES_NOT_FOUND",
		Message:    "KPI series not found",
		Details:    name,
	}
}

// FromError maps pipeline errors to API error responses. Structural input
// errors surface as 422 so a caller can distinguish bad data from a broken
// server; everything else is a 500.
func FromError(err error) *APIError {
	var (
		dup     *DuplicateItemError
		badQty  *MalformedQuantityError
		missing *MissingColumnError
		noCust  *NoCustomersError
	)
	switch {
	case stderrors.As(err, &dup):
		return &APIError{StatusCode: http.StatusUnprocessableEntity, ErrorCode: "DUPLICATE_ITEM", Message: dup.Error(), Details: dup.Item}
	case stderrors.As(err, &badQty):
		return &APIError{StatusCode: http.StatusUnprocessableEntity, ErrorCode: "MALFORMED_QUANTITY", Message: badQty.Error()}
	case stderrors.As(err, &missing):
		return &APIError{StatusCode: http.StatusUnprocessableEntity, ErrorCode: "MISSING_COLUMN", Message: missing.Error(), Details: missing.Column}
	case stderrors.As(err, &noCust):
		return &APIError{StatusCode: http.StatusUnprocessableEntity, ErrorCode: "NO_CUSTOMERS", Message: noCust.Error()}
	default:
		return &APIError{StatusCode: http.StatusInternalServerError, ErrorCode: "INTERNAL_SERVER_ERROR", Message: err.Error()}
	}
}
