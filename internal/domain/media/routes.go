package media

import (
	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	media := admin.Group("/media", middleware.RequirePermission(auth.PermMediaManage))
	{
		media.POST("", h.Upload) // multipart: file, folder, alt_text
		media.GET("", h.List)    // ?folder=
		media.GET("/folders", h.Folders)
		media.GET("/:id", h.Get)
		media.PATCH("/:id", h.Update)
		media.DELETE("/:id", h.Delete)
	}
}
