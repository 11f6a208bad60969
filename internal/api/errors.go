package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// ErrorCode represents machine-readable error codes.
type ErrorCode string

const (
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeRateLimited     ErrorCode = "RATE_LIMITED"
	ErrCodeRequestTooLarge ErrorCode = "REQUEST_TOO_LARGE"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeInvalidJSON     ErrorCode = "INVALID_JSON"
	ErrCodeMissingField    ErrorCode = "MISSING_FIELD"
)

// ErrorResponse represents a structured error response.
type ErrorResponse struct {
	Error     string            `json:"error"`                // HTTP status text
	Message   string            `json:"message"`              // Human-readable description
	Code      ErrorCode         `json:"code"`                 // Machine-readable error code
	Fields    map[string]string `json:"fields,omitempty"`     // Field-level errors
	RequestID string            `json:"request_id,omitempty"` // Request ID for debugging
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(statusCode int, code ErrorCode, message string) *ErrorResponse {
	return &ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
		Code:    code,
	}
}

// WithFields adds field-level errors to the response.
func (e *ErrorResponse) WithFields(fields map[string]string) *ErrorResponse {
	e.Fields = fields
	return e
}

// writeErrorResponse writes a structured error response.
func writeErrorResponse(w http.ResponseWriter, r *http.Request, statusCode int, errResp *ErrorResponse) {
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		errResp.RequestID = reqID
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(errResp)
}

// ValidationFailed writes a validation error with field-level details.
func ValidationFailed(w http.ResponseWriter, r *http.Request, message string, fields map[string]string) {
	errResp := NewErrorResponse(http.StatusBadRequest, ErrCodeValidation, message).WithFields(fields)
	writeErrorResponse(w, r, http.StatusBadRequest, errResp)
}

// BadRequestError writes a bad request error.
func BadRequestError(w http.ResponseWriter, r *http.Request, code ErrorCode, message string) {
	writeErrorResponse(w, r, http.StatusBadRequest, NewErrorResponse(http.StatusBadRequest, code, message))
}

// UnauthorizedError writes an unauthorized error.
func UnauthorizedError(w http.ResponseWriter, r *http.Request, message string) {
	writeErrorResponse(w, r, http.StatusUnauthorized, NewErrorResponse(http.StatusUnauthorized, ErrCodeUnauthorized, message))
}

// ForbiddenError writes a forbidden error.
func ForbiddenError(w http.ResponseWriter, r *http.Request, message string) {
	writeErrorResponse(w, r, http.StatusForbidden, NewErrorResponse(http.StatusForbidden, ErrCodeForbidden, message))
}

// NotFoundError writes a not found error.
func NotFoundError(w http.ResponseWriter, r *http.Request, message string) {
	writeErrorResponse(w, r, http.StatusNotFound, NewErrorResponse(http.StatusNotFound, ErrCodeNotFound, message))
}

// ConflictError writes a conflict error.
func ConflictError(w http.ResponseWriter, r *http.Request, message string) {
	writeErrorResponse(w, r, http.StatusConflict, NewErrorResponse(http.StatusConflict, ErrCodeConflict, message))
}

// InternalError writes an internal server error.
func InternalError(w http.ResponseWriter, r *http.Request, message string) {
	writeErrorResponse(w, r, http.StatusInternalServerError, NewErrorResponse(http.StatusInternalServerError, ErrCodeInternal, message))
}

// RequestTooLargeError writes a request entity too large error.
func RequestTooLargeError(w http.ResponseWriter, r *http.Request, message string) {
	writeErrorResponse(w, r, http.StatusRequestEntityTooLarge, NewErrorResponse(http.StatusRequestEntityTooLarge, ErrCodeRequestTooLarge, message))
}

// RateLimitedError writes a rate limit error. Wired as the httprate limit
// handler so throttled responses share the structured error shape.
func RateLimitedError(w http.ResponseWriter, r *http.Request) {
	writeErrorResponse(w, r, http.StatusTooManyRequests, NewErrorResponse(http.StatusTooManyRequests, ErrCodeRateLimited, "rate limit exceeded"))
}
