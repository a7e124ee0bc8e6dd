package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func inProgressBooking(deposit DepositStatus) *Booking {
	start := time.Date(2026, 5, 2, 2, 0, 0, 0, time.UTC)
	checkedIn := start.Add(-5 * time.Minute)
	return &Booking{
		ID:              42,
		StartTime:       start,
		EndTime:         start.Add(2 * time.Hour),
		EstimatedAmount: 200000,
		DepositAmount:   100000,
		DepositStatus:   deposit,
		Status:          StatusInProgress,
		ActualStartTime: &checkedIn,
	}
}

func TestComputeCheckout_Overtime(t *testing.T) {
	b := inProgressBooking(DepositPaidOnline)

	got := ComputeCheckout(b, b.EndTime.Add(45*time.Minute), 2000)
	assert.Equal(t, 45, got.OvertimeMinutes)
	assert.Equal(t, int64(90000), got.SurchargeAmount)
	assert.Equal(t, int64(290000), got.ActualAmount)
	assert.Equal(t, int64(100000), got.DepositCollected)
	assert.Equal(t, int64(190000), got.RemainingAmount)
}

func TestComputeCheckout_PartialMinutesRoundDown(t *testing.T) {
	b := inProgressBooking(DepositPaidCash)

	got := ComputeCheckout(b, b.EndTime.Add(10*time.Minute+59*time.Second), 1000)
	assert.Equal(t, 10, got.OvertimeMinutes)
	assert.Equal(t, int64(10000), got.SurchargeAmount)
}

func TestComputeCheckout_EarlyLeaveAndUncollectedDeposit(t *testing.T) {
	tests := []struct {
		name      string
		deposit   DepositStatus
		remaining int64
	}{
		{"pending deposit is owed in full", DepositPending, 200000},
		{"waived deposit is not deducted", DepositWaived, 200000},
		{"cash deposit is deducted", DepositPaidCash, 100000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := inProgressBooking(tt.deposit)
			got := ComputeCheckout(b, b.EndTime.Add(-30*time.Minute), 2000)
			assert.Equal(t, 0, got.OvertimeMinutes)
			assert.Equal(t, int64(0), got.SurchargeAmount)
			assert.Equal(t, int64(200000), got.ActualAmount)
			assert.Equal(t, tt.remaining, got.RemainingAmount)
		})
	}
}

func TestComputeCheckout_SameInputSameBill(t *testing.T) {
	b := inProgressBooking(DepositPaidOnline)
	at := b.EndTime.Add(17 * time.Minute)

	first := ComputeCheckout(b, at, 1500)
	second := ComputeCheckout(b, at, 1500)
	assert.Equal(t, first, second)
	assert.Equal(t, StatusInProgress, b.Status)
}
