package nerdcoin

import (
	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/me/nerd-coin", h.GetMine)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	coins := admin.Group("/nerd-coin/:userId")
	{
		coins.GET("", middleware.RequirePermission(auth.PermCustomersView), h.GetForUser)
		coins.POST("/adjust", middleware.RequirePermission(auth.PermNerdCoinAdjust), h.Adjust)
		coins.POST("/redeem", middleware.RequirePermission(auth.PermNerdCoinAdjust), h.Redeem)
		coins.POST("/reconcile", middleware.RequirePermission(auth.PermNerdCoinAdjust), h.Reconcile)
	}
}
