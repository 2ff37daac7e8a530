package handlers

import (
	"net/http"
	"strconv"

	"procflow/internal/apperr"

	"github.com/gin-gonic/gin"
)

type createChatRequest struct {
	DepartmentID uint   `json:"department_id"`
	Name         string `json:"name"`
	Password     string `json:"password"`
}

// ListChats supports an optional ?department_id= filter.
func (h *Handler) ListChats(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	var deptID uint
	if raw := c.Query("department_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || v == 0 {
			h.respondError(c, apperr.Validation("invalid department_id"))
			return
		}
		deptID = uint(v)
	}
	chats, err := h.svc.ListChats(c.Request.Context(), actor, deptID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chats)
}

func (h *Handler) CreateChat(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	var req createChatRequest
	if !h.bind(c, &req) {
		return
	}
	chat, err := h.svc.CreateChat(c.Request.Context(), actor, req.DepartmentID, req.Name, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chat)
}

func (h *Handler) GetChat(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	chat, err := h.svc.GetChat(c.Request.Context(), actor, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, chat)
}

func (h *Handler) DeleteChat(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteChat(c.Request.Context(), actor, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) UnlockChat(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req unlockRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.svc.UnlockChat(c.Request.Context(), actor, id, req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
