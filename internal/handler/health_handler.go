package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohiniBalmiki/taxwise/internal/cache"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	db         Pinger
	cacheStats func() cache.Stats
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// WithCacheStats adds the insight cache counters to the readiness body.
func (h *HealthHandler) WithCacheStats(stats func() cache.Stats) *HealthHandler {
	h.cacheStats = stats
	return h
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz
func (h *HealthHandler) Readiness(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not configured"})
		return
	}
	if err := h.db.PingContext(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": "database not reachable"})
		return
	}
	body := gin.H{"status": "ok"}
	if h.cacheStats != nil {
		body["insight_cache"] = h.cacheStats()
	}
	c.JSON(http.StatusOK, body)
}
