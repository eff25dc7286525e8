package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	pingStore func(ctx context.Context) error
}

// NewHealthHandler creates a health handler. pingStore may be nil when the
// datastore is not configured; the service is still healthy then, just
// running notify-only.
func NewHealthHandler(pingStore func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{pingStore: pingStore}
}

func (h *HealthHandler) Healthcheck(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")

	if h.pingStore == nil {
		c.JSON(http.StatusOK, gin.H{
			"status":   "ok",
			"database": "not_configured",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.pingStore(ctx); err != nil {
		attachError(c, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unavailable",
			"database": "unreachable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"database": "ok",
	})
}
