package interaction

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterUserRoutes(user *gin.RouterGroup) {
	user.GET("/me/interactions", h.List)
	user.GET("/me/interactions/:eventId", h.Get)
	user.PUT("/me/interactions/:eventId", h.Save)
}
