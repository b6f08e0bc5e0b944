package like

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/events/:id/likes", h.Count)
}

// RegisterUserRoutes expects a group guarded by authentication.
func (h *Handler) RegisterUserRoutes(user *gin.RouterGroup) {
	user.POST("/events/:id/like", h.Toggle)
	user.GET("/events/:id/like", h.Status)
	user.GET("/me/likes", h.Mine)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	admin.POST("/likes/reconcile", h.Reconcile)
}
