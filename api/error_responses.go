package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/giomambre/cv-job-matching/internal/errors"
)

// ErrorCode represents standardized error codes for the API
type ErrorCode string

const (
	// Client Error Codes (4xx)
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrorCodeInvalidJSON      ErrorCode = "INVALID_JSON"
	ErrorCodeInvalidRequest   ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidK         ErrorCode = "INVALID_K"
	ErrorCodeUnsupportedInput ErrorCode = "UNSUPPORTED_INPUT"
	ErrorCodePayloadTooLarge  ErrorCode = "PAYLOAD_TOO_LARGE"
	ErrorCodeDocumentNotFound ErrorCode = "DOCUMENT_NOT_FOUND"
	ErrorCodeTaskNotFound     ErrorCode = "TASK_NOT_FOUND"
	ErrorCodeTasksDisabled    ErrorCode = "TASKS_DISABLED"

	// Server Error Codes (5xx)
	ErrorCodeInternalError    ErrorCode = "INTERNAL_ERROR"
	ErrorCodeMatchFailed      ErrorCode = "MATCH_FAILED"
	ErrorCodeModelUnavailable ErrorCode = "MODEL_UNAVAILABLE"
	ErrorCodeTaskFailed       ErrorCode = "TASK_EXECUTION_FAILED"
)

// ErrorDetail provides additional context for an error
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// APIError represents a standardized API error response
type APIError struct {
	Error     string        `json:"error"`
	Code      ErrorCode     `json:"code"`
	Message   string        `json:"message"`
	Details   []ErrorDetail `json:"details,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	RequestID string        `json:"request_id,omitempty"`
}

// APIErrorResponse creates a standardized error response
func APIErrorResponse(code ErrorCode, message string, details ...ErrorDetail) *APIError {
	return &APIError{
		Error:     "Request failed",
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	}
}

// SendError sends a standardized error response
func SendError(c *gin.Context, statusCode int, code ErrorCode, message string, details ...ErrorDetail) {
	errorResponse := APIErrorResponse(code, message, details...)

	// Add request ID if available
	if requestID, exists := c.Get(requestIDKey); exists {
		if id, ok := requestID.(string); ok {
			errorResponse.RequestID = id
		}
	}

	c.JSON(statusCode, errorResponse)
}

// SendStructuredValidationError sends a validation error with structured details
func SendStructuredValidationError(c *gin.Context, result *ValidationResult) {
	details := make([]ErrorDetail, len(result.Errors))
	for i, err := range result.Errors {
		details[i] = ErrorDetail{
			Field:   err.Field,
			Message: err.Message,
			Code:    "VALIDATION_ERROR",
		}
	}

	SendError(c, http.StatusBadRequest, ErrorCodeValidationFailed, "Request validation failed", details...)
}

// SendInvalidJSONError sends a standardized invalid JSON error
func SendInvalidJSONError(c *gin.Context, err error) {
	SendError(c, http.StatusBadRequest, ErrorCodeInvalidJSON,
		"Invalid JSON in request body: "+err.Error())
}

// SendInternalError sends a standardized internal server error
func SendInternalError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeInternalError,
		"Internal error during "+operation+": "+err.Error())
}

// SendMatchError maps a matching failure onto a status code and error code.
func SendMatchError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, apperrors.ErrInvalidK):
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidK, err.Error())
	case errors.Is(err, apperrors.ErrUnsupportedInput):
		SendError(c, http.StatusUnprocessableEntity, ErrorCodeUnsupportedInput, err.Error())
	case errors.As(err, &tooLarge):
		SendError(c, http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, err.Error())
	case errors.Is(err, apperrors.ErrDocumentNotFound):
		SendError(c, http.StatusNotFound, ErrorCodeDocumentNotFound, err.Error())
	case errors.Is(err, apperrors.ErrArtifactMissing), errors.Is(err, apperrors.ErrArtifactCorrupt):
		SendError(c, http.StatusServiceUnavailable, ErrorCodeModelUnavailable, err.Error())
	default:
		SendError(c, http.StatusInternalServerError, ErrorCodeMatchFailed, "Matching failed: "+err.Error())
	}
}

// SendTaskNotFoundError sends a standardized task not found error
func SendTaskNotFoundError(c *gin.Context, taskID string) {
	SendError(c, http.StatusNotFound, ErrorCodeTaskNotFound,
		"Task '"+taskID+"' not found")
}

// SendTaskExecutionError sends a standardized task start failure
func SendTaskExecutionError(c *gin.Context, operation string, err error) {
	SendError(c, http.StatusInternalServerError, ErrorCodeTaskFailed,
		"Failed to start "+operation+" task: "+err.Error())
}
