package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clock(h, m int) time.Time {
	return time.Date(2026, 5, 2, h, m, 0, 0, time.UTC)
}

func TestSubtractBusy(t *testing.T) {
	open, closes := clock(8, 0), clock(22, 0)

	tests := []struct {
		name string
		busy []TimeSlot
		want []TimeSlot
	}{
		{
			name: "no bookings",
			want: []TimeSlot{{clock(8, 0), clock(22, 0)}},
		},
		{
			name: "one booking in the middle",
			busy: []TimeSlot{{clock(9, 0), clock(11, 0)}},
			want: []TimeSlot{{clock(8, 0), clock(9, 0)}, {clock(11, 0), clock(22, 0)}},
		},
		{
			name: "overlapping and touching bookings merge",
			busy: []TimeSlot{
				{clock(13, 0), clock(14, 0)},
				{clock(9, 0), clock(11, 0)},
				{clock(10, 30), clock(12, 0)},
				{clock(12, 0), clock(12, 30)},
			},
			want: []TimeSlot{
				{clock(8, 0), clock(9, 0)},
				{clock(12, 30), clock(13, 0)},
				{clock(14, 0), clock(22, 0)},
			},
		},
		{
			name: "bookings are clipped to opening hours",
			busy: []TimeSlot{{clock(7, 0), clock(8, 30)}, {clock(21, 0), clock(23, 0)}},
			want: []TimeSlot{{clock(8, 30), clock(21, 0)}},
		},
		{
			name: "fully booked",
			busy: []TimeSlot{{clock(6, 0), clock(23, 0)}},
			want: []TimeSlot{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, subtractBusy(open, closes, tt.busy))
		})
	}
}

func TestSubtractBusy_DoesNotReorderInput(t *testing.T) {
	busy := []TimeSlot{{clock(15, 0), clock(16, 0)}, {clock(9, 0), clock(10, 0)}}
	subtractBusy(clock(8, 0), clock(22, 0), busy)
	assert.Equal(t, clock(15, 0), busy[0].Start)
}
