package post

import (
	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.GET("/posts", h.ListPublished) // ?type=NEWS|EVENT
	api.GET("/posts/:slug", h.GetBySlug)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	posts := admin.Group("/posts", middleware.RequirePermission(auth.PermPostsManage))
	{
		posts.GET("", h.List)
		posts.POST("", h.Create)
		posts.GET("/:id", h.Get)
		posts.PUT("/:id", h.Update)
		posts.PATCH("/:id/status", h.SetStatus)
		posts.DELETE("/:id", h.Delete)
	}
}
