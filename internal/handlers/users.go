package handlers

import (
	"net/http"

	"procflow/internal/models"
	"procflow/internal/service"

	"github.com/gin-gonic/gin"
)

type createUserRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	var req createUserRequest
	if !h.bind(c, &req) {
		return
	}
	user, err := h.svc.CreateUser(c.Request.Context(), actor, service.NewUser{
		Name:     req.Name,
		Password: req.Password,
		Role:     models.UserRole(req.Role),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

type setRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) SetUserRole(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	userID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req setRoleRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.svc.SetRole(c.Request.Context(), actor, userID, models.UserRole(req.Role)); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type setPasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) SetUserPassword(c *gin.Context) {
	actor, ok := h.identity(c)
	if !ok {
		return
	}
	userID, ok := h.idParam(c, "id")
	if !ok {
		return
	}
	var req setPasswordRequest
	if !h.bind(c, &req) {
		return
	}
	if err := h.svc.SetPassword(c.Request.Context(), actor, userID, req.Password); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
