package staff

import (
	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	members := admin.Group("/staff", middleware.RequirePermission(auth.PermStaffManage))
	{
		members.GET("", h.ListStaff) // ?q=&active=
		members.POST("", h.Create)
		members.PATCH("/:id", h.Update)
		members.POST("/:id/deactivate", h.Deactivate)
	}

	customers := admin.Group("/customers", middleware.RequirePermission(auth.PermCustomersView))
	{
		customers.GET("", h.ListCustomers) // ?q=
		customers.GET("/:id", h.GetCustomer)
	}
}
