package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"draftdesk/internal/service"
)

// ExportHandler renders repaired bundles as downloadable files.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// Export handles POST /api/v1/export/:format
func (h *ExportHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Param("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	var req BundleRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Bundle) == 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "bundle is required")
		return
	}
	candidate, ok := decodeCandidate(c, req.Bundle, "bundle")
	if !ok {
		return
	}

	result, err := h.exportService.Export(c.Request.Context(), candidate, format)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
