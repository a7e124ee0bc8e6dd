package booking

import (
	"context"
	"time"
)

const (
	EventCreated         = "booking.created"
	EventPaymentReported = "booking.payment_reported"
	EventConfirmed       = "booking.confirmed"
	EventCheckedIn       = "booking.checked_in"
	EventCompleted       = "booking.completed"
	EventCancelled       = "booking.cancelled"
	EventNoShow          = "booking.no_show"
	EventRescheduled     = "booking.rescheduled"
)

// EventPublisher fans booking changes out to the staff live board.
// Publish must not block.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any)
}

// EventPayload is the live board view of a booking change.
type EventPayload struct {
	BookingID            int64         `json:"booking_id"`
	Code                 string        `json:"code"`
	Status               Status        `json:"status"`
	DepositStatus        DepositStatus `json:"deposit_status"`
	AwaitingConfirmation bool          `json:"awaiting_confirmation"`
	LocationID           int64         `json:"location_id"`
	RoomID               int64         `json:"room_id"`
	CustomerName         string        `json:"customer_name"`
	StartTime            time.Time     `json:"start_time"`
	EndTime              time.Time     `json:"end_time"`
}

func payloadFor(b *Booking) EventPayload {
	return EventPayload{
		BookingID:            b.ID,
		Code:                 b.Code,
		Status:               b.Status,
		DepositStatus:        b.DepositStatus,
		AwaitingConfirmation: b.IsAwaitingConfirmation(),
		LocationID:           b.LocationID,
		RoomID:               b.RoomID,
		CustomerName:         b.CustomerName,
		StartTime:            b.StartTime,
		EndTime:              b.EndTime,
	}
}

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, any) {}
