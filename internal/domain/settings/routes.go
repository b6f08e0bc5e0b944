package settings

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/settings", h.Get)
	admin.PATCH("/settings", h.Patch)
}
