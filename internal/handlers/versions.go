package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createVersionRequest struct {
	ProcessText   string `json:"process_text"`
	DiagramSource string `json:"diagram_source"`
}

func (h *Handler) ListVersions(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	versions, err := h.svc.ListVersions(c.Request.Context(), actor, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, versions)
}

func (h *Handler) CreateVersion(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req createVersionRequest
	if !h.bind(c, &req) {
		return
	}
	version, err := h.svc.CreateVersion(c.Request.Context(), actor, id, req.ProcessText, req.DiagramSource)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, version)
}
