package router

import (
	"github.com/gin-gonic/gin"

	"github.com/mohiniBalmiki/taxwise/internal/handler"
	"github.com/mohiniBalmiki/taxwise/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	verifier middleware.TokenVerifier,
	taxH *handler.TaxHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	tax := r.Group("/api/v1/tax")

	// Public, no persistence
	tax.GET("/deductions", taxH.Deductions)
	tax.POST("/simulate", taxH.Simulate)
	tax.POST("/optimize", taxH.Optimize)
	tax.POST("/categorize", taxH.Categorize)

	// Protected routes - require valid JWT
	protected := tax.Group("")
	protected.Use(middleware.AuthMiddleware(verifier))
	protected.POST("/calculate", taxH.Calculate)
	protected.GET("/history", taxH.History)
	protected.GET("/calculations/:id", taxH.GetCalculation)
	protected.GET("/calculations/:id/export", taxH.Export)
	protected.GET("/insights", taxH.Insights)

	return r
}
