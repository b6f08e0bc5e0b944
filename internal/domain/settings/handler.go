package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"racefinder/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get godoc
// @Summary Read system settings
// @Tags Admin Settings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} SystemSettings
// @Router /admin/settings [get]
func (h *Handler) Get(c *gin.Context) {
	s, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, s)
}

// Patch godoc
// @Summary Merge system settings
// @Tags Admin Settings
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body Patch true "Fields to change"
// @Success 200 {object} SystemSettings
// @Failure 400 {object} response.Response
// @Router /admin/settings [patch]
func (h *Handler) Patch(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", "Invalid request body")
		return
	}

	s, err := h.service.Merge(c.Request.Context(), patch, c.GetString("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, s)
}
