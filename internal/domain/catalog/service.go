package catalog

import (
	"context"
	"fmt"
	"strings"

	"nerdsociety/internal/pkg/applog"

	"gorm.io/datatypes"
)

// BookingUsage reports how many bookings point at a catalog row through
// column (location_id, room_id or combo_id).
type BookingUsage interface {
	CountBookings(ctx context.Context, column string, id int64) (int64, error)
}

type Service struct {
	repo  Repository
	usage BookingUsage
}

func NewService(repo Repository, usage BookingUsage) *Service {
	return &Service{repo: repo, usage: usage}
}

/* ---------- PUBLIC ---------- */

func (s *Service) ListLocations(ctx context.Context, activeOnly bool) ([]Location, error) {
	return s.repo.ListLocations(ctx, activeOnly)
}

// GetLocation hides inactive locations from public callers.
func (s *Service) GetLocation(ctx context.Context, id int64, public bool) (*Location, error) {
	l, err := s.repo.GetLocation(ctx, id, public)
	if err != nil {
		return nil, err
	}
	if public && !l.IsActive {
		return nil, ErrLocationNotFound
	}
	return l, nil
}

func (s *Service) ListRooms(ctx context.Context, f RoomFilter) ([]Room, error) {
	return s.repo.ListRooms(ctx, f)
}

func (s *Service) GetRoom(ctx context.Context, id int64, public bool) (*Room, error) {
	room, err := s.repo.GetRoom(ctx, id)
	if err != nil {
		return nil, err
	}
	if public && (!room.IsActive || room.Location == nil || !room.Location.IsActive) {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

func (s *Service) ListCombos(ctx context.Context, f ComboFilter) ([]Combo, error) {
	return s.repo.ListCombos(ctx, f)
}

func (s *Service) GetCombo(ctx context.Context, id int64) (*Combo, error) {
	return s.repo.GetCombo(ctx, id)
}

// Select loads and cross-checks what a new booking refers to: everything
// active, the room inside the location and the combo made for its type.
func (s *Service) Select(ctx context.Context, locationID, roomID, comboID int64) (*Selection, error) {
	l, err := s.repo.GetLocation(ctx, locationID, false)
	if err != nil {
		return nil, err
	}
	room, err := s.repo.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	combo, err := s.repo.GetCombo(ctx, comboID)
	if err != nil {
		return nil, err
	}

	switch {
	case !l.IsActive:
		return nil, fmt.Errorf("%w: location %d", ErrInactive, l.ID)
	case !room.IsActive:
		return nil, fmt.Errorf("%w: room %d", ErrInactive, room.ID)
	case !combo.IsActive:
		return nil, fmt.Errorf("%w: combo %d", ErrInactive, combo.ID)
	case room.LocationID != l.ID:
		return nil, ErrRoomNotInLocation
	case combo.RoomType != room.Type:
		return nil, ErrComboRoomMismatch
	}

	l.Rooms = nil
	return &Selection{Location: l, Room: room, Combo: combo}, nil
}

/* ---------- ADMIN: LOCATIONS ---------- */

func (s *Service) CreateLocation(ctx context.Context, req CreateLocationRequest) (*Location, error) {
	l := &Location{
		Name:      strings.TrimSpace(req.Name),
		Address:   strings.TrimSpace(req.Address),
		Phone:     strings.TrimSpace(req.Phone),
		MapURL:    strings.TrimSpace(req.MapURL),
		ImageURL:  strings.TrimSpace(req.ImageURL),
		OpenTime:  orDefault(req.OpenTime, DefaultOpenTime),
		CloseTime: orDefault(req.CloseTime, DefaultCloseTime),
		IsActive:  req.IsActive == nil || *req.IsActive,
	}
	if err := validateHours(l.OpenTime, l.CloseTime); err != nil {
		return nil, err
	}
	if err := s.repo.CreateLocation(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) UpdateLocation(ctx context.Context, id int64, req UpdateLocationRequest) (*Location, error) {
	current, err := s.repo.GetLocation(ctx, id, false)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	setString(updates, "name", req.Name)
	setString(updates, "address", req.Address)
	setString(updates, "phone", req.Phone)
	setString(updates, "map_url", req.MapURL)
	setString(updates, "image_url", req.ImageURL)
	setString(updates, "open_time", req.OpenTime)
	setString(updates, "close_time", req.CloseTime)
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	openTime, closeTime := current.OpenTime, current.CloseTime
	if v, ok := updates["open_time"].(string); ok {
		openTime = v
	}
	if v, ok := updates["close_time"].(string); ok {
		closeTime = v
	}
	if err := validateHours(openTime, closeTime); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateLocation(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.GetLocation(ctx, id, false)
}

func (s *Service) DeleteLocation(ctx context.Context, id int64) (*DeleteResult, error) {
	if _, err := s.repo.GetLocation(ctx, id, false); err != nil {
		return nil, err
	}
	return s.deleteOrDeactivate(ctx, "location_id", id,
		func() error { return s.repo.DeleteLocation(ctx, id) },
		func() error { return s.repo.UpdateLocation(ctx, id, map[string]any{"is_active": false}) },
	)
}

/* ---------- ADMIN: ROOMS ---------- */

func (s *Service) CreateRoom(ctx context.Context, req CreateRoomRequest) (*Room, error) {
	if !req.Type.Valid() {
		return nil, ErrInvalidRoomType
	}
	if _, err := s.repo.GetLocation(ctx, req.LocationID, false); err != nil {
		return nil, err
	}

	room := &Room{
		LocationID:  req.LocationID,
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Type:        req.Type,
		Capacity:    req.Capacity,
		Amenities:   cleanList(req.Amenities),
		ImageURL:    strings.TrimSpace(req.ImageURL),
		IsActive:    req.IsActive == nil || *req.IsActive,
	}
	if err := s.repo.CreateRoom(ctx, room); err != nil {
		return nil, err
	}
	return s.repo.GetRoom(ctx, room.ID)
}

func (s *Service) UpdateRoom(ctx context.Context, id int64, req UpdateRoomRequest) (*Room, error) {
	if _, err := s.repo.GetRoom(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.LocationID != nil {
		if _, err := s.repo.GetLocation(ctx, *req.LocationID, false); err != nil {
			return nil, err
		}
		updates["location_id"] = *req.LocationID
	}
	if req.Type != nil {
		if !req.Type.Valid() {
			return nil, ErrInvalidRoomType
		}
		updates["type"] = *req.Type
	}
	setString(updates, "name", req.Name)
	setString(updates, "image_url", req.ImageURL)
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.Amenities != nil {
		updates["amenities"] = datatypes.JSONSlice[string](cleanList(*req.Amenities))
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if err := s.repo.UpdateRoom(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.GetRoom(ctx, id)
}

func (s *Service) DeleteRoom(ctx context.Context, id int64) (*DeleteResult, error) {
	if _, err := s.repo.GetRoom(ctx, id); err != nil {
		return nil, err
	}
	return s.deleteOrDeactivate(ctx, "room_id", id,
		func() error { return s.repo.DeleteRoom(ctx, id) },
		func() error { return s.repo.UpdateRoom(ctx, id, map[string]any{"is_active": false}) },
	)
}

/* ---------- ADMIN: COMBOS ---------- */

func (s *Service) CreateCombo(ctx context.Context, req CreateComboRequest) (*Combo, error) {
	c := &Combo{
		Name:            strings.TrimSpace(req.Name),
		Description:     req.Description,
		RoomType:        req.RoomType,
		PriceType:       req.PriceType,
		Price:           req.Price,
		PricePerHour:    req.PricePerHour,
		DurationMinutes: req.DurationMinutes,
		SortOrder:       req.SortOrder,
		IsActive:        req.IsActive == nil || *req.IsActive,
	}
	if err := validateCombo(c); err != nil {
		return nil, err
	}
	if err := s.repo.CreateCombo(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) UpdateCombo(ctx context.Context, id int64, req UpdateComboRequest) (*Combo, error) {
	c, err := s.repo.GetCombo(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
		updates["name"] = c.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
		updates["description"] = c.Description
	}
	if req.RoomType != nil {
		c.RoomType = *req.RoomType
		updates["room_type"] = c.RoomType
	}
	if req.PriceType != nil {
		c.PriceType = *req.PriceType
		updates["price_type"] = c.PriceType
	}
	if req.Price != nil {
		c.Price = *req.Price
		updates["price"] = c.Price
	}
	if req.PricePerHour != nil {
		c.PricePerHour = *req.PricePerHour
		updates["price_per_hour"] = c.PricePerHour
	}
	if req.DurationMinutes != nil {
		c.DurationMinutes = *req.DurationMinutes
		updates["duration_minutes"] = c.DurationMinutes
	}
	if req.SortOrder != nil {
		c.SortOrder = *req.SortOrder
		updates["sort_order"] = c.SortOrder
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
		updates["is_active"] = c.IsActive
	}

	if err := validateCombo(c); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCombo(ctx, id, updates); err != nil {
		return nil, err
	}
	return s.repo.GetCombo(ctx, id)
}

func (s *Service) DeleteCombo(ctx context.Context, id int64) (*DeleteResult, error) {
	if _, err := s.repo.GetCombo(ctx, id); err != nil {
		return nil, err
	}
	return s.deleteOrDeactivate(ctx, "combo_id", id,
		func() error { return s.repo.DeleteCombo(ctx, id) },
		func() error { return s.repo.UpdateCombo(ctx, id, map[string]any{"is_active": false}) },
	)
}

func (s *Service) deleteOrDeactivate(ctx context.Context, column string, id int64, remove, deactivate func() error) (*DeleteResult, error) {
	var refs int64
	if s.usage != nil {
		n, err := s.usage.CountBookings(ctx, column, id)
		if err != nil {
			return nil, err
		}
		refs = n
	}

	if refs > 0 {
		if err := deactivate(); err != nil {
			return nil, err
		}
		applog.FromContext(ctx).
			WithField(column, id).
			WithField("bookings", refs).
			Info("catalog row referenced by bookings, deactivated instead of deleted")
		return &DeleteResult{ID: id, Deactivated: true}, nil
	}

	if err := remove(); err != nil {
		return nil, err
	}
	return &DeleteResult{ID: id, Deleted: true}, nil
}

func validateHours(openTime, closeTime string) error {
	opens, err := ParseClock(openTime)
	if err != nil {
		return err
	}
	closes, err := ParseClock(closeTime)
	if err != nil {
		return err
	}
	if closes <= opens {
		return ErrInvalidHours
	}
	return nil
}

func validateCombo(c *Combo) error {
	if !c.RoomType.Valid() {
		return ErrInvalidRoomType
	}
	if c.Price < 0 || c.PricePerHour < 0 || c.DurationMinutes < 0 {
		return ErrInvalidPrice
	}
	switch c.PriceType {
	case PriceFlat:
		if c.Price <= 0 {
			return fmt.Errorf("%w: flat combos need a price", ErrInvalidPrice)
		}
	case PriceHourly:
		if c.PricePerHour <= 0 {
			return fmt.Errorf("%w: hourly combos need price_per_hour", ErrInvalidPrice)
		}
	case PriceFirstHour:
		if c.Price <= 0 || c.PricePerHour <= 0 {
			return fmt.Errorf("%w: first-hour combos need price and price_per_hour", ErrInvalidPrice)
		}
	default:
		return ErrInvalidPriceType
	}
	return nil
}

func setString(updates map[string]any, column string, v *string) {
	if v != nil {
		updates[column] = strings.TrimSpace(*v)
	}
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
