package platformerrors

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPErrorResponse represents the standard error response format.
type HTTPErrorResponse struct {
	Error *HTTPErrorDetail `json:"error"`
}

// HTTPErrorDetail contains error details for HTTP responses.
type HTTPErrorDetail struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteError logs err and writes it with the status mapped from its type. Failures that
// map to 5xx are reported without their message; unclassified errors are 500.
func WriteError(c *gin.Context, err error, log zerolog.Logger) {
	platformErr := GetPlatformError(err)
	if platformErr == nil {
		log.Error().Err(err).Str("request_id", RequestIDFromContext(c.Request.Context())).Msg("unhandled error")
		WriteInternalError(c, http.StatusText(http.StatusInternalServerError))
		return
	}

	LogError(log, platformErr)

	status := ErrorTypeToHTTPStatus(platformErr.Type)
	message := platformErr.Message
	if status >= http.StatusInternalServerError {
		message = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message:   message,
			Type:      typeName(platformErr.Type),
			Code:      platformErr.Code,
			RequestID: platformErr.RequestID,
		},
	})
}

// WriteValidationError writes a 400 Bad Request response.
func WriteValidationError(c *gin.Context, message string) {
	writeDetail(c, http.StatusBadRequest, message, ErrorTypeValidation)
}

// WriteUnauthorized writes a 401 Unauthorized response.
func WriteUnauthorized(c *gin.Context, message string) {
	writeDetail(c, http.StatusUnauthorized, message, ErrorTypeUnauthorized)
}

// WriteInternalError writes a 500 Internal Server Error response.
func WriteInternalError(c *gin.Context, message string) {
	writeDetail(c, http.StatusInternalServerError, message, ErrorTypeInternal)
}

func writeDetail(c *gin.Context, status int, message string, errorType ErrorType) {
	c.AbortWithStatusJSON(status, HTTPErrorResponse{
		Error: &HTTPErrorDetail{
			Message:   message,
			Type:      typeName(errorType),
			RequestID: RequestIDFromContext(c.Request.Context()),
		},
	})
}

// typeName converts an ErrorType to the snake_case name used in API responses.
func typeName(t ErrorType) string {
	switch t {
	case ErrorTypeNotFound:
		return "not_found_error"
	case ErrorTypeValidation:
		return "validation_error"
	case ErrorTypeConflict:
		return "conflict_error"
	case ErrorTypeUnauthorized:
		return "unauthorized_error"
	case ErrorTypeForbidden:
		return "forbidden_error"
	case ErrorTypeRateLimited:
		return "rate_limited_error"
	case ErrorTypeTimeout:
		return "timeout_error"
	case ErrorTypeExternal:
		return "external_error"
	default:
		return "internal_error"
	}
}
