package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	ListLocations(ctx context.Context, activeOnly bool) ([]Location, error)
	GetLocation(ctx context.Context, id int64, activeRooms bool) (*Location, error)
	CreateLocation(ctx context.Context, l *Location) error
	UpdateLocation(ctx context.Context, id int64, updates map[string]any) error
	DeleteLocation(ctx context.Context, id int64) error

	ListRooms(ctx context.Context, f RoomFilter) ([]Room, error)
	GetRoom(ctx context.Context, id int64) (*Room, error)
	CreateRoom(ctx context.Context, r *Room) error
	UpdateRoom(ctx context.Context, id int64, updates map[string]any) error
	DeleteRoom(ctx context.Context, id int64) error

	ListCombos(ctx context.Context, f ComboFilter) ([]Combo, error)
	GetCombo(ctx context.Context, id int64) (*Combo, error)
	CreateCombo(ctx context.Context, c *Combo) error
	UpdateCombo(ctx context.Context, id int64, updates map[string]any) error
	DeleteCombo(ctx context.Context, id int64) error
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

/* ---------- LOCATIONS ---------- */

func roomsByID(db *gorm.DB) *gorm.DB {
	return db.Order("id")
}

func activeRoomsByID(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("id")
}

// ListLocations preloads active rooms for the public listing.
func (r *GormRepository) ListLocations(ctx context.Context, activeOnly bool) ([]Location, error) {
	var items []Location
	q := r.db.WithContext(ctx).Order("id")
	if activeOnly {
		q = q.Where("is_active = ?", true).Preload("Rooms", activeRoomsByID)
	} else {
		q = q.Preload("Rooms", roomsByID)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepository) GetLocation(ctx context.Context, id int64, activeRooms bool) (*Location, error) {
	var l Location
	q := r.db.WithContext(ctx)
	if activeRooms {
		q = q.Preload("Rooms", activeRoomsByID)
	} else {
		q = q.Preload("Rooms", roomsByID)
	}
	if err := q.First(&l, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *GormRepository) CreateLocation(ctx context.Context, l *Location) error {
	return r.db.WithContext(ctx).Omit("Rooms").Create(l).Error
}

func (r *GormRepository) UpdateLocation(ctx context.Context, id int64, updates map[string]any) error {
	return r.update(ctx, &Location{}, id, updates, ErrLocationNotFound)
}

// DeleteLocation removes the location together with its rooms.
func (r *GormRepository) DeleteLocation(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("location_id = ?", id).Delete(&Room{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&Location{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrLocationNotFound
		}
		return nil
	})
}

/* ---------- ROOMS ---------- */

func (r *GormRepository) ListRooms(ctx context.Context, f RoomFilter) ([]Room, error) {
	var items []Room
	q := r.db.WithContext(ctx).Order("location_id, id")
	if f.LocationID > 0 {
		q = q.Where("location_id = ?", f.LocationID)
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepository) GetRoom(ctx context.Context, id int64) (*Room, error) {
	var room Room
	if err := r.db.WithContext(ctx).Preload("Location").First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *GormRepository) CreateRoom(ctx context.Context, room *Room) error {
	return r.db.WithContext(ctx).Omit("Location").Create(room).Error
}

func (r *GormRepository) UpdateRoom(ctx context.Context, id int64, updates map[string]any) error {
	return r.update(ctx, &Room{}, id, updates, ErrRoomNotFound)
}

func (r *GormRepository) DeleteRoom(ctx context.Context, id int64) error {
	return r.delete(ctx, &Room{}, id, ErrRoomNotFound)
}

/* ---------- COMBOS ---------- */

func (r *GormRepository) ListCombos(ctx context.Context, f ComboFilter) ([]Combo, error) {
	var items []Combo
	q := r.db.WithContext(ctx).Order("sort_order, id")
	if f.RoomType != "" {
		q = q.Where("room_type = ?", f.RoomType)
	}
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepository) GetCombo(ctx context.Context, id int64) (*Combo, error) {
	var c Combo
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrComboNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormRepository) CreateCombo(ctx context.Context, c *Combo) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *GormRepository) UpdateCombo(ctx context.Context, id int64, updates map[string]any) error {
	return r.update(ctx, &Combo{}, id, updates, ErrComboNotFound)
}

func (r *GormRepository) DeleteCombo(ctx context.Context, id int64) error {
	return r.delete(ctx, &Combo{}, id, ErrComboNotFound)
}

func (r *GormRepository) update(ctx context.Context, model any, id int64, updates map[string]any, notFound error) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}

func (r *GormRepository) delete(ctx context.Context, model any, id int64, notFound error) error {
	res := r.db.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}
