package booking

import (
	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes wires the booking wizard. optionalAuth links the
// booking to a signed in customer when a token is sent.
func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup, optionalAuth gin.HandlerFunc) {
	api.GET("/rooms/:id/availability", h.Availability)
	api.POST("/bookings", optionalAuth, h.Create)

	byCode := api.Group("/bookings/code/:code")
	{
		byCode.GET("", h.GetByCode)
		byCode.POST("/payment-method", h.SelectPaymentMethod)
		byCode.POST("/report-payment", h.ReportPayment)
		byCode.POST("/cancel", h.CancelByCustomer)
		byCode.POST("/reschedule", h.RescheduleByCustomer)
	}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	protected.GET("/me/bookings", h.MyBookings)
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	view := middleware.RequirePermission(auth.PermBookingsView)
	manage := middleware.RequirePermission(auth.PermBookingsManage)
	checkIn := middleware.RequirePermission(auth.PermBookingsCheckIn)

	admin.GET("/stats", view, h.Stats)

	bookings := admin.Group("/bookings")
	{
		bookings.GET("", view, h.List)
		bookings.GET("/:id", view, h.Get)
		bookings.POST("/:id/confirm-payment", manage, h.ConfirmPayment)
		bookings.POST("/:id/check-in", checkIn, h.CheckIn)
		bookings.GET("/:id/check-out/preview", checkIn, h.PreviewCheckout)
		bookings.POST("/:id/check-out", checkIn, h.CheckOut)
		bookings.POST("/:id/cancel", manage, h.CancelByStaff)
		bookings.POST("/:id/no-show", manage, h.MarkNoShow)
		bookings.POST("/:id/reschedule", manage, h.RescheduleByStaff)
		bookings.POST("/:id/remind", manage, h.SendReminder)
	}
}
