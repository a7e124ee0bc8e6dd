package booking

import (
	"time"

	"nerdsociety/internal/domain/catalog"
	"nerdsociety/internal/domain/payment"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusConfirmed  Status = "CONFIRMED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
	StatusNoShow     Status = "NO_SHOW"
)

var transitions = map[Status][]Status{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusInProgress, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted},
}

// ActiveStatuses hold the room: they count against availability.
var ActiveStatuses = []Status{StatusPending, StatusConfirmed, StatusInProgress}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// CanTransitionTo is the only gate for status changes.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsFinal is true for statuses with no way out.
func (s Status) IsFinal() bool {
	return len(transitions[s]) == 0
}

type DepositStatus string

const (
	DepositPending    DepositStatus = "PENDING"
	DepositPaidOnline DepositStatus = "PAID_ONLINE"
	DepositPaidCash   DepositStatus = "PAID_CASH"
	DepositWaived     DepositStatus = "WAIVED"
)

// Collected reports whether money for the deposit was actually received.
func (d DepositStatus) Collected() bool {
	return d == DepositPaidOnline || d == DepositPaidCash
}

type Booking struct {
	ID         int64  `json:"id" gorm:"primaryKey"`
	Code       string `json:"code" gorm:"size:16;not null;uniqueIndex"`
	LocationID int64  `json:"location_id" gorm:"not null;index"`
	RoomID     int64  `json:"room_id" gorm:"not null;index:idx_bookings_room_start,priority:1"`
	ComboID    int64  `json:"combo_id" gorm:"not null;index"`
	UserID     *int64 `json:"user_id,omitempty" gorm:"index"`

	CustomerName  string `json:"customer_name" gorm:"size:255;not null"`
	CustomerPhone string `json:"customer_phone" gorm:"size:32;not null"`
	CustomerEmail string `json:"customer_email,omitempty" gorm:"size:255"`

	StartTime  time.Time `json:"start_time" gorm:"not null;index:idx_bookings_room_start,priority:2"`
	EndTime    time.Time `json:"end_time" gorm:"not null"`
	GuestCount int       `json:"guest_count" gorm:"not null;default:1"`
	Note       string    `json:"note,omitempty" gorm:"type:text"`

	EstimatedAmount    int64          `json:"estimated_amount" gorm:"not null"`
	DepositAmount      int64          `json:"deposit_amount" gorm:"not null"`
	DepositStatus      DepositStatus  `json:"deposit_status" gorm:"size:20;not null;index"`
	PaymentMethod      payment.Method `json:"payment_method,omitempty" gorm:"size:20"`
	PaymentStartedAt   *time.Time     `json:"payment_started_at,omitempty"`
	DepositPaidAt      *time.Time     `json:"deposit_paid_at,omitempty"`
	DepositConfirmedAt *time.Time     `json:"deposit_confirmed_at,omitempty"`
	DepositConfirmedBy *int64         `json:"deposit_confirmed_by,omitempty"`

	ActualStartTime *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty"`
	ActualAmount    *int64     `json:"actual_amount,omitempty"`
	OvertimeMinutes int        `json:"overtime_minutes" gorm:"not null;default:0"`
	SurchargeAmount int64      `json:"surcharge_amount" gorm:"not null;default:0"`
	RemainingAmount *int64     `json:"remaining_amount,omitempty"`
	NerdCoinIssued  int64      `json:"nerd_coin_issued" gorm:"not null;default:0"`

	Status         Status     `json:"status" gorm:"size:20;not null;index"`
	CancelReason   string     `json:"cancel_reason,omitempty" gorm:"type:text"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy    *int64     `json:"cancelled_by,omitempty"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Location *catalog.Location `json:"location,omitempty" gorm:"foreignKey:LocationID"`
	Room     *catalog.Room     `json:"room,omitempty" gorm:"foreignKey:RoomID"`
	Combo    *catalog.Combo    `json:"combo,omitempty" gorm:"foreignKey:ComboID"`

	AwaitingConfirmation bool `json:"awaiting_confirmation" gorm:"-"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) AfterFind(_ *gorm.DB) error {
	b.AwaitingConfirmation = b.IsAwaitingConfirmation()
	return nil
}

// IsAwaitingConfirmation is true while a customer says they paid and staff
// has not checked the bank statement yet.
func (b *Booking) IsAwaitingConfirmation() bool {
	return b.Status == StatusPending && b.DepositPaidAt != nil && b.DepositStatus == DepositPending
}

func (b *Booking) Duration() time.Duration {
	return b.EndTime.Sub(b.StartTime)
}

// DepositFor is half the estimate, rounded half up.
func DepositFor(estimate int64) int64 {
	if estimate <= 0 {
		return 0
	}
	return (estimate + 1) / 2
}
