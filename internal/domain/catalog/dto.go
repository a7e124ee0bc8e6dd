package catalog

type CreateLocationRequest struct {
	Name      string `json:"name" binding:"required,max=150"`
	Address   string `json:"address" binding:"required,max=255"`
	Phone     string `json:"phone" binding:"max=30"`
	MapURL    string `json:"map_url" binding:"omitempty,url"`
	ImageURL  string `json:"image_url"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	IsActive  *bool  `json:"is_active"`
}

type UpdateLocationRequest struct {
	Name      *string `json:"name" binding:"omitempty,max=150"`
	Address   *string `json:"address" binding:"omitempty,max=255"`
	Phone     *string `json:"phone" binding:"omitempty,max=30"`
	MapURL    *string `json:"map_url"`
	ImageURL  *string `json:"image_url"`
	OpenTime  *string `json:"open_time"`
	CloseTime *string `json:"close_time"`
	IsActive  *bool   `json:"is_active"`
}

type CreateRoomRequest struct {
	LocationID  int64    `json:"location_id" binding:"required,gt=0"`
	Name        string   `json:"name" binding:"required,max=150"`
	Description string   `json:"description"`
	Type        RoomType `json:"type" binding:"required"`
	Capacity    int      `json:"capacity" binding:"required,gt=0"`
	Amenities   []string `json:"amenities"`
	ImageURL    string   `json:"image_url"`
	IsActive    *bool    `json:"is_active"`
}

type UpdateRoomRequest struct {
	LocationID  *int64    `json:"location_id" binding:"omitempty,gt=0"`
	Name        *string   `json:"name" binding:"omitempty,max=150"`
	Description *string   `json:"description"`
	Type        *RoomType `json:"type"`
	Capacity    *int      `json:"capacity" binding:"omitempty,gt=0"`
	Amenities   *[]string `json:"amenities"`
	ImageURL    *string   `json:"image_url"`
	IsActive    *bool     `json:"is_active"`
}

type CreateComboRequest struct {
	Name            string    `json:"name" binding:"required,max=150"`
	Description     string    `json:"description"`
	RoomType        RoomType  `json:"room_type" binding:"required"`
	PriceType       PriceType `json:"price_type" binding:"required"`
	Price           int64     `json:"price" binding:"gte=0"`
	PricePerHour    int64     `json:"price_per_hour" binding:"gte=0"`
	DurationMinutes int       `json:"duration_minutes" binding:"gte=0"`
	SortOrder       int       `json:"sort_order"`
	IsActive        *bool     `json:"is_active"`
}

type UpdateComboRequest struct {
	Name            *string    `json:"name" binding:"omitempty,max=150"`
	Description     *string    `json:"description"`
	RoomType        *RoomType  `json:"room_type"`
	PriceType       *PriceType `json:"price_type"`
	Price           *int64     `json:"price" binding:"omitempty,gte=0"`
	PricePerHour    *int64     `json:"price_per_hour" binding:"omitempty,gte=0"`
	DurationMinutes *int       `json:"duration_minutes" binding:"omitempty,gte=0"`
	SortOrder       *int       `json:"sort_order"`
	IsActive        *bool      `json:"is_active"`
}

// RoomFilter narrows room listings. Zero values match everything.
type RoomFilter struct {
	LocationID int64
	Type       RoomType
	ActiveOnly bool
}

type ComboFilter struct {
	RoomType   RoomType
	ActiveOnly bool
}

// DeleteResult tells whether a row was removed or only deactivated
// because bookings still point at it.
type DeleteResult struct {
	ID          int64 `json:"id"`
	Deleted     bool  `json:"deleted"`
	Deactivated bool  `json:"deactivated"`
}

// Selection is a validated location/room/combo triple for a new booking.
type Selection struct {
	Location *Location
	Room     *Room
	Combo    *Combo
}
