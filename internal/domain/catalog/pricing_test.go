package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComboEstimate(t *testing.T) {
	tests := []struct {
		name    string
		combo   Combo
		minutes int
		want    int64
		wantErr error
	}{
		{
			name:    "flat within coverage",
			combo:   Combo{PriceType: PriceFlat, Price: 200000, DurationMinutes: 180},
			minutes: 120,
			want:    200000,
		},
		{
			name:    "flat beyond coverage",
			combo:   Combo{PriceType: PriceFlat, Price: 200000, DurationMinutes: 180},
			minutes: 181,
			wantErr: ErrDurationNotCovered,
		},
		{
			name:    "flat without cap",
			combo:   Combo{PriceType: PriceFlat, Price: 50000},
			minutes: 600,
			want:    50000,
		},
		{
			name:    "hourly two hours",
			combo:   Combo{PriceType: PriceHourly, PricePerHour: 100000},
			minutes: 120,
			want:    200000,
		},
		{
			name:    "hourly rounds half up",
			combo:   Combo{PriceType: PriceHourly, PricePerHour: 25000},
			minutes: 45,
			want:    18750,
		},
		{
			name:    "hourly pro rata rounding",
			combo:   Combo{PriceType: PriceHourly, PricePerHour: 10001},
			minutes: 30,
			want:    5001,
		},
		{
			name:    "first hour only",
			combo:   Combo{PriceType: PriceFirstHour, Price: 30000, PricePerHour: 20000},
			minutes: 45,
			want:    30000,
		},
		{
			name:    "first hour plus ninety minutes",
			combo:   Combo{PriceType: PriceFirstHour, Price: 30000, PricePerHour: 20000},
			minutes: 150,
			want:    60000,
		},
		{
			name:    "zero minutes",
			combo:   Combo{PriceType: PriceHourly, PricePerHour: 100000},
			minutes: 0,
			wantErr: ErrDurationNotCovered,
		},
		{
			name:    "unknown type",
			combo:   Combo{PriceType: "DAILY", Price: 1},
			minutes: 60,
			wantErr: ErrInvalidPriceType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.combo.Estimate(tt.minutes)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseClock(t *testing.T) {
	m, err := ParseClock("08:30")
	require.NoError(t, err)
	assert.Equal(t, 510, m)

	m, err = ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, 1440, m)

	for _, bad := range []string{"8:30", "24:30", "12:60", "ab:cd", "", "12-30"} {
		_, err := ParseClock(bad)
		assert.ErrorIs(t, err, ErrInvalidClock, bad)
	}
}

func TestLocationIsOpenBetween(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)
	l := Location{OpenTime: "08:00", CloseTime: "22:00"}

	at := func(h, m int) time.Time { return time.Date(2026, 5, 1, h, m, 0, 0, loc).UTC() }

	assert.True(t, l.IsOpenBetween(at(8, 0), at(10, 0), loc))
	assert.True(t, l.IsOpenBetween(at(20, 0), at(22, 0), loc))
	assert.False(t, l.IsOpenBetween(at(7, 30), at(9, 0), loc))
	assert.False(t, l.IsOpenBetween(at(21, 0), at(22, 30), loc))
}

func TestRoomTypeIsPod(t *testing.T) {
	assert.True(t, RoomPodMono.IsPod())
	assert.True(t, RoomPodMulti.IsPod())
	assert.False(t, RoomMeetingLong.IsPod())
	assert.False(t, RoomType("STUDIO").Valid())
}
