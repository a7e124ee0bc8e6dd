package setting

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	settings := admin.Group("/settings")
	{
		settings.GET("", h.List)
		settings.PUT("", h.Update)
		settings.DELETE("/:key", h.Delete)
	}
}
