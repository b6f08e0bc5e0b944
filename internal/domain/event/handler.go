package event

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

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

// ListPublished godoc
// @Summary List published races
// @Tags Events
// @Param category query string false "Category"
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Produce json
// @Router /events [get]
func (h *Handler) ListPublished(c *gin.Context) {
	page, limit := pageParams(c)
	events, total, err := h.service.ListPublic(c.Request.Context(), c.Query("category"), page, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": events, "total": total, "page": page, "limit": limit})
}

func (h *Handler) GetPublished(c *gin.Context) {
	e, err := h.service.GetPublic(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}

func (h *Handler) List(c *gin.Context) {
	page, limit := pageParams(c)
	events, total, err := h.service.List(c.Request.Context(), Status(c.Query("status")), page, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": events, "total": total, "page": page, "limit": limit})
}

func (h *Handler) Get(c *gin.Context) {
	e, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}

// Create godoc
// @Summary Create a race directly
// @Tags Admin Events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body CreateRequest true "Event"
// @Router /admin/events [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", "Invalid request body")
		return
	}

	e, err := h.service.Create(c.Request.Context(), req, c.GetString("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, e)
}

func (h *Handler) Update(c *gin.Context) {
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", "Invalid request body")
		return
	}

	e, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}

// SetStatus godoc
// @Summary Move a race to draft, published or cancelled
// @Tags Admin Events
// @Security BearerAuth
// @Accept json
// @Param id path string true "Event ID"
// @Param request body StatusRequest true "Target status"
// @Router /admin/events/{id}/status [patch]
func (h *Handler) SetStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", "Invalid request body")
		return
	}

	e, err := h.service.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, e)
}

func (h *Handler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
