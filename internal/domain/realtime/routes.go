package realtime

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the live board outside the header-authenticated
// admin group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/admin/ws", h.ServeWS) // ?token=
}
