package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready checks the database and, when configured, the throttle backend.
func (h *Handler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	ready := true
	if err := h.svc.Ping(ctx); err != nil {
		h.log.Warn("readiness: database ping failed", "error", err)
		checks["database"] = "unavailable"
		ready = false
	}
	if p, ok := h.throttle.(interface{ Ping(context.Context) error }); ok {
		checks["redis"] = "ok"
		if err := p.Ping(ctx); err != nil {
			h.log.Warn("readiness: redis ping failed", "error", err)
			checks["redis"] = "unavailable"
			ready = false
		}
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "checks": checks})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "checks": checks})
}
