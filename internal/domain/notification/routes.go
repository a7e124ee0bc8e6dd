package notification

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	templates := admin.Group("/email-templates")
	{
		templates.GET("", h.ListTemplates)
		templates.GET("/:name", h.GetTemplate)
		templates.PUT("/:name", h.SaveTemplate)
		templates.DELETE("/:name", h.ResetTemplate)
		templates.POST("/:name/preview", h.PreviewTemplate)
	}
}
