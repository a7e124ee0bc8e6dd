package notification

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TemplateRepository interface {
	GetByName(ctx context.Context, name string) (*EmailTemplate, error)
	List(ctx context.Context) ([]EmailTemplate, error)
	Upsert(ctx context.Context, t *EmailTemplate) error
	DeleteByName(ctx context.Context, name string) (bool, error)
}

type GormTemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *GormTemplateRepository {
	return &GormTemplateRepository{db: db}
}

// GetByName returns nil, nil when no override exists.
func (r *GormTemplateRepository) GetByName(ctx context.Context, name string) (*EmailTemplate, error) {
	var t EmailTemplate
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *GormTemplateRepository) List(ctx context.Context) ([]EmailTemplate, error) {
	var items []EmailTemplate
	if err := r.db.WithContext(ctx).Order("name").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormTemplateRepository) Upsert(ctx context.Context, t *EmailTemplate) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"subject", "content", "is_active", "updated_by", "updated_at"}),
	}).Create(t).Error
}

func (r *GormTemplateRepository) DeleteByName(ctx context.Context, name string) (bool, error) {
	res := r.db.WithContext(ctx).Where("name = ?", name).Delete(&EmailTemplate{})
	return res.RowsAffected > 0, res.Error
}
