// Package handlers exposes the service over a JSON HTTP API.
package handlers

import (
	"context"
	"strconv"

	"procflow/internal/access"
	"procflow/internal/apperr"
	"procflow/internal/logger"
	"procflow/internal/middleware"
	"procflow/internal/service"

	"github.com/gin-gonic/gin"
)

// LoginThrottle limits failed logins per key.
type LoginThrottle interface {
	Blocked(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

type Handler struct {
	svc      *service.Service
	throttle LoginThrottle
	log      *logger.Logger
}

// New builds the handler set; throttle may be nil to disable login limiting.
func New(svc *service.Service, throttle LoginThrottle, log *logger.Logger) *Handler {
	return &Handler{svc: svc, throttle: throttle, log: log.With("component", "http")}
}

// respondError writes the JSON error envelope. Internal errors are logged with
// their cause; the client only sees a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	status, body := apperr.Render(err)
	if apperr.KindOf(err) == apperr.KindInternal {
		h.log.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"request_id", middleware.GetRequestID(c),
			"error", err,
		)
	}
	c.AbortWithStatusJSON(status, body)
}

func (h *Handler) bind(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		h.respondError(c, apperr.Validation("invalid request body"))
		return false
	}
	return true
}

// identity is safe after RequireAuth; a missing one still yields 401.
func (h *Handler) identity(c *gin.Context) (access.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		h.respondError(c, apperr.Unauthorized("authentication required"))
	}
	return id, ok
}

func (h *Handler) idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		h.respondError(c, apperr.Validation("invalid "+name))
		return 0, false
	}
	return uint(id), true
}
