package admin

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/me", h.Me)

	admin.GET("/administrators", h.List)
	admin.POST("/administrators", h.Add)
	admin.DELETE("/administrators/:email", h.Remove)
}
