package http

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/library/internal/apperrors"
	"github.com/mrlokans/library/internal/audit"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"` // machine-readable error code
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: string(apperrors.KindInvalidInput)})
}

// respondError sends an error response with the given status code.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondServiceError maps a service outcome onto an HTTP status.
// Data access failures are logged with their cause, which never reaches the client.
func respondServiceError(c *gin.Context, err error, context string) {
	kind := apperrors.KindOf(err)

	var status int
	message := err.Error()
	switch kind {
	case apperrors.KindNotFound:
		status = http.StatusNotFound
	case apperrors.KindInvalidInput:
		status = http.StatusBadRequest
	case apperrors.KindConflict:
		status = http.StatusConflict
	default:
		log.Printf("Internal error (%s): %v", context, err)
		status = http.StatusInternalServerError
		message = "internal server error"
		var appErr *apperrors.Error
		if errors.As(err, &appErr) && appErr.Message != "" {
			message = appErr.Message
		}
	}

	c.JSON(status, ErrorResponse{Error: message, Code: string(kind)})
}

// --- Success Response Helpers ---

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL parameters.
// Returns the parsed ID or responds with a 400 error and returns 0, false.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body into dst, answering 400 on malformed input.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			respondBadRequest(c, "request body is required")
			return false
		}
		respondBadRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// requestOrigin identifies the caller for audit records.
func requestOrigin(c *gin.Context) audit.Origin {
	return audit.Origin{
		RequestID: c.GetString(RequestIDContextKey),
		IPAddress: c.ClientIP(),
	}
}
