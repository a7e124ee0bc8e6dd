package booking

import "errors"

var (
	ErrNotFound                = errors.New("booking not found")
	ErrInvalidSlot             = errors.New("invalid booking time range")
	ErrStartInPast             = errors.New("booking must start in the future")
	ErrOutsideOpeningHours     = errors.New("booking is outside opening hours")
	ErrTooManyGuests           = errors.New("guest count exceeds room capacity")
	ErrSlotTaken               = errors.New("room is not available for the selected time")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrCancellationWindow      = errors.New("cancellation window has closed")
	ErrRescheduleWindow        = errors.New("reschedule window has closed")
	ErrPaymentNotSelected      = errors.New("bank transfer has not been selected")
	ErrDepositSettled          = errors.New("deposit already settled")
	ErrInvalidDepositMethod    = errors.New("deposit method must be ONLINE, CASH or WAIVED")
	ErrNoShowTooEarly          = errors.New("booking has not started yet")
	ErrInvalidActualEnd        = errors.New("actual end time must be between check-in and now")
	ErrMissingContact          = errors.New("customer name and phone are required")
	ErrCodeGeneration          = errors.New("could not generate a unique booking code")
	ErrInvalidFilter           = errors.New("invalid booking filter")
)
