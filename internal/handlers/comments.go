package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createCommentRequest struct {
	Text string `json:"text"`
}

func (h *Handler) ListComments(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	comments, err := h.svc.ListComments(c.Request.Context(), actor, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *Handler) CreateComment(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req createCommentRequest
	if !h.bind(c, &req) {
		return
	}
	comment, err := h.svc.AddComment(c.Request.Context(), actor, id, req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
