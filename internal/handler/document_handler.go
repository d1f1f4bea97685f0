package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"draftdesk/internal/parser"
	"draftdesk/internal/service"
)

// DocumentHandler handles validation, repair and totals endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// BundleRequest carries an untrusted candidate bundle. Repair also accepts
// raw model output in RawText.
type BundleRequest struct {
	Bundle  json.RawMessage `json:"bundle"`
	RawText string          `json:"raw_text"`
}

// DraftRequest carries an untrusted candidate draft.
type DraftRequest struct {
	Draft json.RawMessage `json:"draft"`
}

// Validate handles POST /api/v1/validate
func (h *DocumentHandler) Validate(c *gin.Context) {
	var req BundleRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Bundle) == 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "bundle is required")
		return
	}
	candidate, ok := decodeCandidate(c, req.Bundle, "bundle")
	if !ok {
		return
	}

	result, err := h.documentService.Validate(c.Request.Context(), candidate)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Repair handles POST /api/v1/repair
func (h *DocumentHandler) Repair(c *gin.Context) {
	var req BundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be a JSON object")
		return
	}

	if strings.TrimSpace(req.RawText) != "" {
		bundle, err := h.documentService.RepairText(c.Request.Context(), req.RawText)
		if err != nil {
			HandleError(c, err)
			return
		}
		RespondOK(c, bundle)
		return
	}

	if len(req.Bundle) == 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "bundle or raw_text is required")
		return
	}
	candidate, ok := decodeCandidate(c, req.Bundle, "bundle")
	if !ok {
		return
	}

	bundle, err := h.documentService.Repair(c.Request.Context(), candidate)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, bundle)
}

// ComputeTotals handles POST /api/v1/compute/totals
func (h *DocumentHandler) ComputeTotals(c *gin.Context) {
	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Draft) == 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "draft is required")
		return
	}
	candidate, ok := decodeCandidate(c, req.Draft, "draft")
	if !ok {
		return
	}

	draft, err := h.documentService.ComputeTotals(c.Request.Context(), candidate)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"draft": draft})
}

// Schema handles GET /api/v1/schema. The schema is served bare, without the
// response envelope, so it can be handed to a model as-is.
func (h *DocumentHandler) Schema(c *gin.Context) {
	raw, err := h.documentService.Schema(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/schema+json", raw)
}

// decodeCandidate re-decodes a raw field with exact numbers. A failure
// writes the error response.
func decodeCandidate(c *gin.Context, raw json.RawMessage, field string) (any, bool) {
	candidate, err := parser.DecodeBytes(raw)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", field+" is not valid JSON")
		return nil, false
	}
	return candidate, true
}
