package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON envelope for every failed request.
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     ErrorDetail `json:"error"`
	Timestamp string      `json:"timestamp"`
	Path      string      `json:"path"`
	Method    string      `json:"method"`
}

type ErrorDetail struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Hint    string      `json:"hint,omitempty"`
}

// SuccessResponse wraps non-binary payloads.
type SuccessResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	Message   string      `json:"message,omitempty"`
	Timestamp string      `json:"timestamp"`
}

const (
	ErrCodeBadRequest       = "BAD_REQUEST"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeInvalidMode      = "INVALID_MODE"
	ErrCodeInvalidSeriesKey = "INVALID_SERIES_KEY"
	ErrCodeInternalServer   = "INTERNAL_SERVER_ERROR"
)

func RespondWithError(c *gin.Context, statusCode int, errorCode, message string, details interface{}, hint string) {
	c.JSON(statusCode, ErrorResponse{
		Success: false,
		Error: ErrorDetail{
			Code:    errorCode,
			Message: message,
			Details: details,
			Hint:    hint,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Path:      c.Request.URL.Path,
		Method:    c.Request.Method,
	})
}

func RespondWithSuccess(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, SuccessResponse{
		Success:   true,
		Data:      data,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func BadRequest(c *gin.Context, message string, details interface{}) {
	RespondWithError(c, http.StatusBadRequest, ErrCodeBadRequest, message, details,
		"Check the query parameters")
}

func InvalidMode(c *gin.Context, mode string) {
	RespondWithError(c, http.StatusBadRequest, ErrCodeInvalidMode,
		"Unknown chart mode",
		gin.H{"mode": mode},
		"Use 'stacked' or 'lines'")
}

func InvalidSeriesKey(c *gin.Context, key string) {
	RespondWithError(c, http.StatusBadRequest, ErrCodeInvalidSeriesKey,
		"Unknown series key",
		gin.H{"key": key},
		"Use one of Threat, Harm, Challenge, Benefit")
}

func InternalServerError(c *gin.Context, message string, err error) {
	RespondWithError(c, http.StatusInternalServerError, ErrCodeInternalServer, message,
		gin.H{"error": err.Error()}, "")
}
