package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ChatHistory returns the audit trail of one chat (creation, versions,
// comments, status changes), oldest first.
func (h *Handler) ChatHistory(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	logs, err := h.svc.ListHistory(c.Request.Context(), actor, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, logs)
}
