package catalog

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterPublicRoutes(api *gin.RouterGroup) {
	api.GET("/locations", h.ListLocations)
	api.GET("/locations/:id", h.GetLocation)
	api.GET("/rooms", h.ListRooms) // ?location_id=&type=
	api.GET("/rooms/:id", h.GetRoom)
	api.GET("/combos", h.ListCombos) // ?room_type=
}

func (h *Handler) RegisterAdminRoutes(admin *gin.RouterGroup) {
	locations := admin.Group("/locations")
	{
		locations.GET("", h.AdminListLocations)
		locations.POST("", h.CreateLocation)
		locations.PUT("/:id", h.UpdateLocation)
		locations.DELETE("/:id", h.DeleteLocation)
	}

	rooms := admin.Group("/rooms")
	{
		rooms.GET("", h.AdminListRooms)
		rooms.POST("", h.CreateRoom)
		rooms.PUT("/:id", h.UpdateRoom)
		rooms.DELETE("/:id", h.DeleteRoom)
	}

	combos := admin.Group("/combos")
	{
		combos.GET("", h.AdminListCombos)
		combos.POST("", h.CreateCombo)
		combos.PUT("/:id", h.UpdateCombo)
		combos.DELETE("/:id", h.DeleteCombo)
	}
}
