package interaction

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

func (h *Handler) Save(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", "Invalid request body")
		return
	}

	in, err := h.service.Save(c.Request.Context(), c.GetString("user_id"), c.Param("eventId"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, in)
}

func (h *Handler) Get(c *gin.Context) {
	in, err := h.service.Get(c.Request.Context(), c.GetString("user_id"), c.Param("eventId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, in)
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"interactions": items})
}
