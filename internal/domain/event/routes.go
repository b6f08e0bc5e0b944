package event

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/events", h.ListPublished)
	r.GET("/events/:id", h.GetPublished)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/events", h.List)
	admin.GET("/events/:id", h.Get)
	admin.POST("/events", h.Create)
	admin.PATCH("/events/:id", h.Update)
	admin.PATCH("/events/:id/status", h.SetStatus)
	admin.DELETE("/events/:id", h.Delete)
}
