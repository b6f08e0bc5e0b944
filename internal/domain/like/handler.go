package like

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

// Toggle godoc
// @Summary Like or unlike a race
// @Tags Likes
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Produce json
// @Success 200 {object} Result
// @Failure 429 {object} response.Response
// @Router /events/{id}/like [post]
func (h *Handler) Toggle(c *gin.Context) {
	res, err := h.service.Toggle(c.Request.Context(), c.Param("id"), c.GetString("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Status(c *gin.Context) {
	eventID := c.Param("id")
	liked, err := h.service.IsLiked(c.Request.Context(), eventID, c.GetString("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	total, err := h.service.Count(c.Request.Context(), eventID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, Result{Liked: liked, TotalLikes: total})
}

func (h *Handler) Count(c *gin.Context) {
	eventID := c.Param("id")
	total, err := h.service.Count(c.Request.Context(), eventID)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"event_id": eventID, "total_likes": total})
}

func (h *Handler) Mine(c *gin.Context) {
	ids, err := h.service.LikedEventIDs(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"event_ids": ids})
}

func (h *Handler) Reconcile(c *gin.Context) {
	drifts, err := h.service.Reconcile(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"repaired": drifts})
}
