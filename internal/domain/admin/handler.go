package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"racefinder/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List godoc
// @Summary List administrators
// @Tags Admin Management
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Produce json
// @Router /admin/administrators [get]
func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	admins, total, err := h.service.List(c.Request.Context(), page, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"administrators": admins,
		"total":          total,
		"page":           page,
		"limit":          limit,
	})
}

// Add godoc
// @Summary Grant administrator access
// @Tags Admin Management
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body AddInput true "Administrator details"
// @Success 201 {object} Administrator
// @Failure 409 {object} response.Response
// @Router /admin/administrators [post]
func (h *Handler) Add(c *gin.Context) {
	var req AddInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", "Invalid request body")
		return
	}

	a, err := h.service.Add(c.Request.Context(), req, c.GetString("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, a)
}

// Remove godoc
// @Summary Revoke administrator access
// @Tags Admin Management
// @Security BearerAuth
// @Param email path string true "Administrator email"
// @Router /admin/administrators/{email} [delete]
func (h *Handler) Remove(c *gin.Context) {
	if err := h.service.Remove(c.Request.Context(), c.Param("email")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"removed": true})
}

func (h *Handler) Me(c *gin.Context) {
	a, err := h.service.Get(c.Request.Context(), c.GetString("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, a)
}
