package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "draftdesk/internal/apidocs"
	"draftdesk/internal/config"
	"draftdesk/internal/handler"
	"draftdesk/internal/middleware"
)

// Handlers groups the HTTP handlers mounted by Setup.
type Handlers struct {
	Document *handler.DocumentHandler
	Payment  *handler.PaymentHandler
	Export   *handler.ExportHandler
	Health   *handler.HealthHandler
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(cfg *config.Config, log zerolog.Logger, h Handlers) *gin.Engine {
	if cfg.Server.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	// API docs outside production
	if !cfg.Server.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")
	v1.GET("/schema", h.Document.Schema)
	v1.POST("/validate", h.Document.Validate)
	v1.POST("/repair", h.Document.Repair)
	v1.POST("/compute/totals", h.Document.ComputeTotals)
	v1.POST("/upi/deeplink", h.Payment.UPIDeeplink)
	v1.POST("/export/:format", h.Export.Export)

	return r
}
