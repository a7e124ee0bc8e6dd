package payment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	GetByBookingID(ctx context.Context, bookingID int64) (*Payment, error)
	Save(ctx context.Context, p *Payment) error
	MarkReported(ctx context.Context, bookingID int64, at time.Time) error
	MarkCompletedIdempotent(ctx context.Context, p *Payment, at time.Time, actorID *int64) (bool, error)
	WithTx(tx *gorm.DB) Repository
}

type GormRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func (r *GormRepository) WithTx(tx *gorm.DB) Repository {
	return &GormRepository{db: tx}
}

func (r *GormRepository) GetByBookingID(ctx context.Context, bookingID int64) (*Payment, error) {
	var p Payment
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Save upserts on booking_id so a booking keeps a single payment row.
// reported_at is left alone on conflict; only MarkReported sets it.
func (r *GormRepository) Save(ctx context.Context, p *Payment) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "booking_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"method", "status", "amount", "description", "updated_at"}),
	}).Create(p).Error
}

// MarkReported keeps the first report time.
func (r *GormRepository) MarkReported(ctx context.Context, bookingID int64, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&Payment{}).
		Where("booking_id = ? AND reported_at IS NULL", bookingID).
		Update("reported_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var existing int64
	if err := r.db.WithContext(ctx).Model(&Payment{}).Where("booking_id = ?", bookingID).Count(&existing).Error; err != nil {
		return err
	}
	if existing == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkCompletedIdempotent completes the booking's payment, creating it when
// none was opened. It reports false when it was already completed.
func (r *GormRepository) MarkCompletedIdempotent(ctx context.Context, p *Payment, at time.Time, actorID *int64) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Payment
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("booking_id = ?", p.BookingID).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			p.Status = StatusCompleted
			p.ConfirmedAt = &at
			p.ConfirmedBy = actorID
			if err := tx.Create(p).Error; err != nil {
				return err
			}
			changed = true
			return nil
		case err != nil:
			return err
		}

		if existing.Status == StatusCompleted {
			*p = existing
			return nil
		}

		updates := map[string]any{
			"status":       StatusCompleted,
			"method":       p.Method,
			"amount":       p.Amount,
			"confirmed_at": at,
			"confirmed_by": actorID,
		}
		if err := tx.Model(&Payment{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(p, existing.ID).Error; err != nil {
			return err
		}
		changed = true
		return nil
	})
	return changed, err
}
