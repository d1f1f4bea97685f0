package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"draftdesk/internal/domain"
	"draftdesk/internal/middleware"
	"draftdesk/internal/repair"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrInvalidUPIRequest):
		return http.StatusBadRequest, "INVALID_UPI_REQUEST", err.Error()
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "INVALID_REQUEST", err.Error()
	case errors.Is(err, domain.ErrUnsupportedExportFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported export format; allowed: pdf, xlsx, csv"
	case errors.Is(err, domain.ErrNoJSONFound):
		return http.StatusBadRequest, "NO_JSON_FOUND", "no JSON object found in text"
	case errors.Is(err, domain.ErrUnrepairable):
		return http.StatusInternalServerError, "UNREPAIRABLE_DOCUMENT", "document could not be repaired into a valid bundle"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		event := middleware.GetLogger(c).Error().Err(err)
		var unrepairable *repair.UnrepairableError
		if errors.As(err, &unrepairable) {
			event = event.Interface("findings", unrepairable.Findings)
		}
		event.Msg("request failed")
	}
	RespondError(c, status, code, msg)
}
