package booking

import "time"

// ComputeCheckout bills a checked-in booking ending at actualEnd. Overtime
// is counted in whole minutes past the scheduled end and only the deposit
// actually received is deducted.
func ComputeCheckout(b *Booking, actualEnd time.Time, ratePerMinute int64) CheckoutSummary {
	overtime := 0
	if late := actualEnd.Sub(b.EndTime); late > 0 {
		overtime = int(late / time.Minute)
	}
	if ratePerMinute < 0 {
		ratePerMinute = 0
	}

	surcharge := int64(overtime) * ratePerMinute
	actual := b.EstimatedAmount + surcharge

	var collected int64
	if b.DepositStatus.Collected() {
		collected = b.DepositAmount
	}

	return CheckoutSummary{
		BookingID:        b.ID,
		ScheduledEnd:     b.EndTime,
		ActualStartTime:  b.ActualStartTime,
		ActualEndTime:    actualEnd,
		OvertimeMinutes:  overtime,
		RatePerMinute:    ratePerMinute,
		EstimatedAmount:  b.EstimatedAmount,
		SurchargeAmount:  surcharge,
		ActualAmount:     actual,
		DepositCollected: collected,
		RemainingAmount:  actual - collected,
	}
}
