package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	GetByCode(ctx context.Context, code string) (*Booking, error)
	GetForUpdate(ctx context.Context, id int64) (*Booking, error)
	Transition(ctx context.Context, id int64, from Status, updates map[string]any) error
	Update(ctx context.Context, id int64, updates map[string]any) error

	HasOverlap(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error)
	BusySlots(ctx context.Context, roomID int64, from, to time.Time) ([]TimeSlot, error)

	List(ctx context.Context, f ListFilter, from, to *time.Time) ([]Booking, int64, error)
	ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Booking, int64, error)
	DueReminders(ctx context.Context, from, to time.Time) ([]Booking, error)
	CountBookings(ctx context.Context, column string, id int64) (int64, error)
	Stats(ctx context.Context, from, to, now time.Time, locationID int64) (*Stats, error)
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

func (r *GormRepository) Create(ctx context.Context, b *Booking) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(b).Error
}

func (r *GormRepository) GetByID(ctx context.Context, id int64) (*Booking, error) {
	var b Booking
	if err := r.withDetails(ctx).First(&b, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}

func (r *GormRepository) GetByCode(ctx context.Context, code string) (*Booking, error) {
	var b Booking
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := r.withDetails(ctx).Where("code = ?", code).First(&b).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}

// GetForUpdate locks the row for the rest of the transaction.
func (r *GormRepository) GetForUpdate(ctx context.Context, id int64) (*Booking, error) {
	var b Booking
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, id).Error; err != nil {
		return nil, mapNotFound(err)
	}
	return &b, nil
}

// Transition applies updates only while the booking is still in status
// from, so two staff members cannot move the same booking twice.
func (r *GormRepository) Transition(ctx context.Context, id int64, from Status, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&Booking{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidStatusTransition
	}
	return nil
}

func (r *GormRepository) Update(ctx context.Context, id int64, updates map[string]any) error {
	res := r.db.WithContext(ctx).Model(&Booking{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) HasOverlap(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error) {
	q := r.db.WithContext(ctx).Model(&Booking{}).
		Where("room_id = ?", roomID).
		Where("status IN ?", ActiveStatuses).
		Where("start_time < ? AND end_time > ?", end, start)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("check overlap: %w", err)
	}
	return count > 0, nil
}

func (r *GormRepository) BusySlots(ctx context.Context, roomID int64, from, to time.Time) ([]TimeSlot, error) {
	var rows []Booking
	err := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time").
		Where("room_id = ?", roomID).
		Where("status IN ?", ActiveStatuses).
		Where("start_time < ? AND end_time > ?", to, from).
		Order("start_time ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]TimeSlot, 0, len(rows))
	for _, b := range rows {
		out = append(out, TimeSlot{Start: b.StartTime, End: b.EndTime})
	}
	return out, nil
}

func (r *GormRepository) List(ctx context.Context, f ListFilter, from, to *time.Time) ([]Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&Booking{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.LocationID > 0 {
		q = q.Where("location_id = ?", f.LocationID)
	}
	if f.RoomID > 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if from != nil && to != nil {
		q = q.Where("start_time >= ? AND start_time < ?", *from, *to)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(code) LIKE ? OR LOWER(customer_name) LIKE ? OR customer_phone LIKE ? OR LOWER(customer_email) LIKE ?",
			like, like, like, like)
	}
	if f.AwaitingConfirmation {
		q = q.Where("status = ? AND deposit_status = ? AND deposit_paid_at IS NOT NULL", StatusPending, DepositPending)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Booking
	err := q.Preload("Location").Preload("Room").Preload("Combo").
		Order("start_time DESC, id DESC").
		Limit(f.PageSize).
		Offset((f.Page - 1) * f.PageSize).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *GormRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&Booking{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []Booking
	err := q.Preload("Location").Preload("Room").Preload("Combo").
		Order("start_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// DueReminders lists confirmed bookings starting in [from, to) that have
// not been reminded yet.
func (r *GormRepository) DueReminders(ctx context.Context, from, to time.Time) ([]Booking, error) {
	var items []Booking
	err := r.withDetails(ctx).
		Where("status = ?", StatusConfirmed).
		Where("reminder_sent_at IS NULL").
		Where("start_time >= ? AND start_time < ?", from, to).
		Order("start_time ASC").
		Find(&items).Error
	return items, err
}

var usageColumns = map[string]bool{"location_id": true, "room_id": true, "combo_id": true}

// CountBookings counts bookings referencing a catalog row.
func (r *GormRepository) CountBookings(ctx context.Context, column string, id int64) (int64, error) {
	if !usageColumns[column] {
		return 0, fmt.Errorf("count bookings: unsupported column %q", column)
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&Booking{}).Where(column+" = ?", id).Count(&count).Error
	return count, err
}

type statusCount struct {
	Status Status
	Count  int64
}

func (r *GormRepository) Stats(ctx context.Context, from, to, now time.Time, locationID int64) (*Stats, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&Booking{})
		if locationID > 0 {
			q = q.Where("location_id = ?", locationID)
		}
		return q
	}

	var rows []statusCount
	err := base().
		Select("status, COUNT(*) AS count").
		Where("start_time >= ? AND start_time < ?", from, to).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	st := &Stats{ByStatus: make(map[Status]int64, len(rows))}
	for _, row := range rows {
		st.ByStatus[row.Status] = row.Count
		st.Total += row.Count
	}

	if err := base().
		Where("status = ? AND deposit_status = ? AND deposit_paid_at IS NOT NULL", StatusPending, DepositPending).
		Count(&st.AwaitingConfirmation).Error; err != nil {
		return nil, err
	}
	if err := base().
		Where("status = ? AND actual_start_time <= ?", StatusInProgress, now).
		Count(&st.InProgressNow).Error; err != nil {
		return nil, err
	}
	if err := base().
		Select("COALESCE(SUM(actual_amount), 0)").
		Where("status = ? AND actual_end_time >= ? AND actual_end_time < ?", StatusCompleted, from, to).
		Scan(&st.Revenue).Error; err != nil {
		return nil, err
	}
	if err := base().
		Select("COALESCE(SUM(deposit_amount), 0)").
		Where("deposit_status IN ? AND deposit_confirmed_at >= ? AND deposit_confirmed_at < ?",
			[]DepositStatus{DepositPaidOnline, DepositPaidCash}, from, to).
		Scan(&st.DepositsCollected).Error; err != nil {
		return nil, err
	}
	return st, nil
}

func (r *GormRepository) withDetails(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Location").Preload("Room").Preload("Combo")
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
