package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"draftdesk/internal/schema"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. The service is ready once the bundle
// schema can be produced.
func (h *HealthHandler) Readiness(c *gin.Context) {
	if _, err := schema.JSON(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "schema not available"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
