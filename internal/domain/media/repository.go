package media

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, m *Media) error
	GetByID(ctx context.Context, id string) (*Media, error)
	Update(ctx context.Context, id string, updates map[string]any) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]Media, int64, error)
	Folders(ctx context.Context) ([]string, error)
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) Create(ctx context.Context, m *Media) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *GormRepository) GetByID(ctx context.Context, id string) (*Media, error) {
	var m Media
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *GormRepository) Update(ctx context.Context, id string, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&Media{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Media{}).Error
}

func (r *GormRepository) List(ctx context.Context, f ListFilter) ([]Media, int64, error) {
	q := r.db.WithContext(ctx).Model(&Media{})
	if f.Folder != "" {
		q = q.Where("folder = ?", f.Folder)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Media
	err := q.Order("created_at DESC").
		Limit(f.PageSize).
		Offset((f.Page - 1) * f.PageSize).
		Find(&items).Error
	return items, total, err
}

func (r *GormRepository) Folders(ctx context.Context) ([]string, error) {
	var folders []string
	err := r.db.WithContext(ctx).Model(&Media{}).Distinct().Order("folder").Pluck("folder", &folders).Error
	return folders, err
}
