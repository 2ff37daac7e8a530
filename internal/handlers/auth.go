package handlers

import (
	"net/http"
	"strings"

	"procflow/internal/apperr"
	"procflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

func throttleKey(c *gin.Context, name string) string {
	return strings.ToLower(strings.TrimSpace(name)) + "|" + c.ClientIP()
}

// Login authenticates and starts a cookie session. Repeated failures for the
// same name and client address are rejected with 429 until the window ends.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !h.bind(c, &req) {
		return
	}
	ctx := c.Request.Context()
	key := throttleKey(c, req.Name)

	if h.throttle != nil {
		blocked, err := h.throttle.Blocked(ctx, key)
		if err != nil {
			// redis недоступен, вход не блокируем
			h.log.Warn("login throttle unavailable", "error", err)
		} else if blocked {
			h.respondError(c, apperr.RateLimited("too many failed login attempts, try again later"))
			return
		}
	}

	id, err := h.svc.Authenticate(ctx, req.Name, req.Password)
	if err != nil {
		if h.throttle != nil && apperr.Is(err, apperr.KindUnauthorized) {
			if ferr := h.throttle.Fail(ctx, key); ferr != nil {
				h.log.Warn("record failed login", "error", ferr)
			}
		}
		h.respondError(c, err)
		return
	}

	if h.throttle != nil {
		if err := h.throttle.Reset(ctx, key); err != nil {
			h.log.Warn("reset login throttle", "error", err)
		}
	}
	if err := middleware.StartSession(c, id); err != nil {
		h.respondError(c, apperr.Internal(err))
		return
	}
	h.log.Info("user logged in", "user_id", id.UserID, "name", id.Name)
	c.JSON(http.StatusOK, id)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := middleware.EndSession(c); err != nil {
		h.respondError(c, apperr.Internal(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// Session returns the current identity.
func (h *Handler) Session(c *gin.Context) {
	id, ok := h.identity(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, id)
}
