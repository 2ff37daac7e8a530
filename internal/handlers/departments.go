package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createDepartmentRequest struct {
	// 0: отдел создаётся для текущего пользователя
	UserID   uint   `json:"user_id"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *Handler) ListDepartments(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	depts, err := h.svc.ListDepartments(c.Request.Context(), actor)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, depts)
}

func (h *Handler) CreateDepartment(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	var req createDepartmentRequest
	if !h.bind(c, &req) {
		return
	}
	dept, err := h.svc.CreateDepartment(c.Request.Context(), actor, req.UserID, req.Name, req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dept)
}

func (h *Handler) DeleteDepartment(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteDepartment(c.Request.Context(), actor, id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type unlockRequest struct {
	Password string `json:"password"`
}

func (h *Handler) UnlockDepartment(c *gin.Context) {
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
	if err := h.svc.UnlockDepartment(c.Request.Context(), actor, id, req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
