package setting

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()

	dsn := fmt.Sprintf("file:setting_service_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Setting{}))

	return NewService(NewRepository(db))
}

func TestTypedReadersFallBack(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	assert.Equal(t, "env-host", svc.GetString(ctx, KeySMTPHost, "env-host"))
	assert.True(t, svc.GetBool(ctx, NotifyPrefix+"booking_confirmation", true))
	assert.Equal(t, int64(1000), svc.GetInt64(ctx, KeyOvertimeRatePerMinute, 1000))
	assert.Equal(t, 6*time.Hour, svc.GetMinutes(ctx, KeyCancelLeadMinutes, 6*time.Hour))

	require.NoError(t, svc.SetMany(ctx, map[string]string{
		KeySMTPHost:                          "smtp.nerd.vn",
		NotifyPrefix + "booking_confirmation": "false",
		KeyOvertimeRatePerMinute:             "2000",
		KeyCancelLeadMinutes:                 "120",
	}))

	assert.Equal(t, "smtp.nerd.vn", svc.GetString(ctx, KeySMTPHost, "env-host"))
	assert.False(t, svc.GetBool(ctx, NotifyPrefix+"booking_confirmation", true))
	assert.Equal(t, int64(2000), svc.GetInt64(ctx, KeyOvertimeRatePerMinute, 1000))
	assert.Equal(t, 2*time.Hour, svc.GetMinutes(ctx, KeyCancelLeadMinutes, 6*time.Hour))
}

func TestMalformedValuesUseFallback(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, KeyOvertimeRatePerMinute, "lots"))
	require.NoError(t, svc.Set(ctx, NotifyPrefix+"booking_cancelled", "maybe"))

	assert.Equal(t, int64(1000), svc.GetInt64(ctx, KeyOvertimeRatePerMinute, 1000))
	assert.True(t, svc.GetBool(ctx, NotifyPrefix+"booking_cancelled", true))
}

func TestSetOverwritesAndMasksSecrets(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, KeySMTPPassword, "hunter2"))
	require.NoError(t, svc.Set(ctx, KeySMTPPassword, maskedValue))

	raw, ok, err := svc.Get(ctx, KeySMTPPassword)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "hunter2", raw)

	items, err := svc.All(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, maskedValue, items[0].Value)

	require.NoError(t, svc.Set(ctx, KeySMTPPassword, "changed"))
	raw, _, _ = svc.Get(ctx, KeySMTPPassword)
	assert.Equal(t, "changed", raw)
}

func TestInvalidKeyAndDelete(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Set(ctx, "nodots", "x"), ErrInvalidKey)
	assert.ErrorIs(t, svc.Delete(ctx, KeySMTPHost), ErrNotFound)

	require.NoError(t, svc.Set(ctx, KeySMTPHost, "smtp.nerd.vn"))
	require.NoError(t, svc.Delete(ctx, KeySMTPHost))
	_, ok, err := svc.Get(ctx, KeySMTPHost)
	require.NoError(t, err)
	assert.False(t, ok)
}
