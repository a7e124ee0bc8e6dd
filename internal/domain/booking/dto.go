package booking

import (
	"time"

	"nerdsociety/internal/domain/payment"
)

// CreateRequest is what the booking wizard submits. Date and clock times
// are local to the business timezone.
type CreateRequest struct {
	LocationID    int64  `json:"location_id" binding:"required,min=1"`
	RoomID        int64  `json:"room_id" binding:"required,min=1"`
	ComboID       int64  `json:"combo_id" binding:"required,min=1"`
	Date          string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime     string `json:"start_time" binding:"required,len=5"`
	EndTime       string `json:"end_time" binding:"required,len=5"`
	GuestCount    int    `json:"guest_count" binding:"required,min=1,max=100"`
	CustomerName  string `json:"customer_name" binding:"omitempty,max=255"`
	CustomerPhone string `json:"customer_phone" binding:"omitempty,max=32"`
	CustomerEmail string `json:"customer_email" binding:"omitempty,email"`
	Note          string `json:"note" binding:"omitempty,max=1000"`
}

type SelectPaymentRequest struct {
	Method payment.Method `json:"method" binding:"required"`
}

// PaymentSelection answers a payment method choice. Transfer and
// PaymentDeadline are set for bank transfers only; the deadline is a hint
// for the countdown shown to the customer.
type PaymentSelection struct {
	Booking         *Booking          `json:"booking"`
	Transfer        *payment.Transfer `json:"transfer,omitempty"`
	PaymentDeadline *time.Time        `json:"payment_deadline,omitempty"`
}

type DepositMethod string

const (
	DepositMethodOnline DepositMethod = "ONLINE"
	DepositMethodCash   DepositMethod = "CASH"
	DepositMethodWaived DepositMethod = "WAIVED"
)

type ConfirmPaymentRequest struct {
	Method DepositMethod `json:"method" binding:"required,oneof=ONLINE CASH WAIVED"`
}

type CheckInRequest struct {
	CollectCashDeposit bool `json:"collect_cash_deposit"`
}

const WarningDepositNotConfirmed = "DEPOSIT_NOT_CONFIRMED"

type CheckInResult struct {
	Booking     *Booking `json:"booking"`
	CoinsIssued int64    `json:"coins_issued"`
	Warnings    []string `json:"warnings"`
}

type CheckoutRequest struct {
	ActualEndTime *time.Time `json:"actual_end_time"`
}

// CheckoutSummary is the bill at check-out.
type CheckoutSummary struct {
	BookingID        int64      `json:"booking_id"`
	ScheduledEnd     time.Time  `json:"scheduled_end"`
	ActualStartTime  *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime    time.Time  `json:"actual_end_time"`
	OvertimeMinutes  int        `json:"overtime_minutes"`
	RatePerMinute    int64      `json:"rate_per_minute"`
	EstimatedAmount  int64      `json:"estimated_amount"`
	SurchargeAmount  int64      `json:"surcharge_amount"`
	ActualAmount     int64      `json:"actual_amount"`
	DepositCollected int64      `json:"deposit_collected"`
	RemainingAmount  int64      `json:"remaining_amount"`
}

type CancelRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500"`
}

type RescheduleRequest struct {
	Date      string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" binding:"required,len=5"`
}

// ListFilter narrows the staff booking list. Date is a local day.
type ListFilter struct {
	Status               Status
	LocationID           int64
	RoomID               int64
	Date                 string
	Search               string
	AwaitingConfirmation bool
	Page                 int
	PageSize             int
}

type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type Availability struct {
	RoomID int64      `json:"room_id"`
	Date   string     `json:"date"`
	Opens  time.Time  `json:"opens"`
	Closes time.Time  `json:"closes"`
	Busy   []TimeSlot `json:"busy"`
	Free   []TimeSlot `json:"free"`
}

// Stats is the dashboard summary for bookings starting on one local day.
type Stats struct {
	Date                 string           `json:"date"`
	Total                int64            `json:"total"`
	ByStatus             map[Status]int64 `json:"by_status"`
	AwaitingConfirmation int64            `json:"awaiting_confirmation"`
	InProgressNow        int64            `json:"in_progress_now"`
	Revenue              int64            `json:"revenue"`
	DepositsCollected    int64            `json:"deposits_collected"`
}
