package proposal

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

// Submit godoc
// @Summary Propose a race for the calendar
// @Tags Proposals
// @Accept json
// @Produce json
// @Param request body SubmitRequest true "Proposal"
// @Router /proposals [post]
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", "Invalid request body")
		return
	}

	p, err := h.service.Submit(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": p.ID, "status": p.Status})
}

func (h *Handler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	items, total, err := h.service.List(c.Request.Context(), Status(c.Query("status")), page, limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"proposals": items, "total": total, "page": page, "limit": limit})
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// Review godoc
// @Summary Approve or reject a proposal
// @Tags Admin Proposals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Proposal ID"
// @Param request body ReviewRequest true "Decision"
// @Router /admin/proposals/{id}/review [post]
func (h *Handler) Review(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid_input", "Invalid request body")
		return
	}

	p, err := h.service.Review(c.Request.Context(), c.Param("id"), req, c.GetString("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, p)
}

// Publish godoc
// @Summary Convert an approved proposal into a draft race
// @Tags Admin Proposals
// @Security BearerAuth
// @Produce json
// @Param id path string true "Proposal ID"
// @Router /admin/proposals/{id}/publish [post]
func (h *Handler) Publish(c *gin.Context) {
	e, created, err := h.service.Publish(c.Request.Context(), c.Param("id"), c.GetString("email"))
	if err != nil {
		response.FromError(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	response.Success(c, status, PublishResponse{EventID: e.ID, Created: created, Event: e})
}
