package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("BOOKING_CANCEL_LEAD_TIME", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, defaultJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 6*time.Hour, cfg.Booking.CancelLeadTime)
	assert.Equal(t, 60*time.Minute, cfg.Booking.RescheduleLeadTime)
	assert.Equal(t, 5*time.Minute, cfg.Booking.PaymentWindow)
	assert.Equal(t, "Asia/Ho_Chi_Minh", cfg.Location.String())
	assert.False(t, cfg.IsProdLike())
}

func TestLoad_ProdRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("TOKEN_PEPPER", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	t.Setenv("JWT_SECRET", "real-secret")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_PEPPER")

	t.Setenv("TOKEN_PEPPER", "real-pepper")
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProdLike())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("APP_ENV", "dev")

	t.Setenv("JWT_TTL", "soon")
	_, err := Load()
	require.Error(t, err)
	t.Setenv("JWT_TTL", "")

	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err = Load()
	require.Error(t, err)
	t.Setenv("TIMEZONE", "")

	t.Setenv("NERDCOIN_GOLD_THRESHOLD", "50")
	_, err = Load()
	require.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"https://a.vn", "https://b.vn"}, splitList(" https://a.vn, ,https://b.vn "))
	assert.Empty(t, splitList(""))
}
