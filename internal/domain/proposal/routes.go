package proposal

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes mounts the anonymous submission endpoint. Callers
// attach their own throttle in front of it.
func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup, throttle ...gin.HandlerFunc) {
	r.POST("/proposals", append(throttle, h.Submit)...)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.GET("/proposals", h.List)
	admin.GET("/proposals/:id", h.Get)
	admin.POST("/proposals/:id/review", h.Review)
	admin.POST("/proposals/:id/publish", h.Publish)
}
