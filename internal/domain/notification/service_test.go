package notification

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"nerdsociety/internal/domain/setting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []Message
	err  error
}

func (m *recordingMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.sent...)
}

func setupTestService(t *testing.T, settings SettingsReader) (*Service, *GormTemplateRepository, *recordingMailer) {
	t.Helper()

	dsn := fmt.Sprintf("file:notification_service_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&EmailTemplate{}))

	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	repo := NewTemplateRepository(db)
	mailer := &recordingMailer{}
	svc := NewService(repo, mailer, settings, loc, "https://nerd.test/")
	return svc, repo, mailer
}

func sampleBooking() BookingMail {
	return BookingMail{
		Code:            "NS7K2QXA",
		CustomerName:    "An",
		CustomerEmail:   "an@nerd.vn",
		LocationName:    "Hồ Tùng Mậu",
		RoomName:        "Pod 1",
		ServiceName:     "Pod theo giờ",
		StartTime:       time.Date(2026, 5, 1, 2, 0, 0, 0, time.UTC),
		EndTime:         time.Date(2026, 5, 1, 4, 0, 0, 0, time.UTC),
		GuestCount:      1,
		EstimatedAmount: 200000,
		DepositAmount:   100000,
	}
}

func TestSendBookingConfirmed_UsesBuiltInTemplate(t *testing.T) {
	svc, _, mailer := setupTestService(t, mapSettings{})

	svc.SendBookingConfirmed(context.Background(), sampleBooking())
	svc.Wait()

	sent := mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "an@nerd.vn", sent[0].To)
	assert.Equal(t, "[Nerd Society] Xác nhận đặt chỗ NS7K2QXA", sent[0].Subject)
	assert.Contains(t, sent[0].HTML, "09:00 - 11:00")
	assert.Contains(t, sent[0].HTML, "01/05/2026")
	assert.Contains(t, sent[0].HTML, "100.000 ₫")
	assert.Contains(t, sent[0].HTML, "https://nerd.test/booking/NS7K2QXA")
}

func TestSend_DatabaseOverrideWins(t *testing.T) {
	svc, repo, mailer := setupTestService(t, mapSettings{})
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &EmailTemplate{
		Name:     TemplateBookingPending,
		Subject:  "Pending {bookingCode}",
		Content:  "<p>Hello {customerName}</p>",
		IsActive: true,
	}))

	svc.SendBookingPending(ctx, sampleBooking())
	svc.Wait()

	sent := mailer.messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Pending NS7K2QXA", sent[0].Subject)
	assert.Equal(t, "<p>Hello An</p>", sent[0].HTML)
}

func TestSend_InactiveOverrideFallsBack(t *testing.T) {
	svc, repo, mailer := setupTestService(t, mapSettings{})
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &EmailTemplate{
		Name:     TemplateBookingCancelled,
		Subject:  "custom",
		Content:  "custom",
		IsActive: false,
	}))

	m := sampleBooking()
	m.CancelReason = "Khách bận"
	svc.SendBookingCancelled(ctx, m)
	svc.Wait()

	sent := mailer.messages()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].Subject, "đã bị hủy")
	assert.Contains(t, sent[0].HTML, "Khách bận")
}

func TestSend_ToggleAndMissingRecipient(t *testing.T) {
	svc, _, mailer := setupTestService(t, mapSettings{setting.NotifyPrefix + TemplateCheckInReminder: "false"})
	ctx := context.Background()

	svc.SendCheckInReminder(ctx, sampleBooking())

	guest := sampleBooking()
	guest.CustomerEmail = ""
	svc.SendBookingPending(ctx, guest)
	svc.Wait()

	assert.Empty(t, mailer.messages())
}

func TestSend_FailureIsSwallowed(t *testing.T) {
	svc, _, mailer := setupTestService(t, mapSettings{})
	mailer.err = errors.New("smtp down")

	assert.NotPanics(t, func() {
		svc.SendPasswordReset(context.Background(), "an@nerd.vn", "An", "https://nerd.test/reset-password?token=x")
		svc.Wait()
	})
	assert.Empty(t, mailer.messages())
}

func TestTemplateAdmin(t *testing.T) {
	svc, _, _ := setupTestService(t, mapSettings{})
	ctx := context.Background()

	views, err := svc.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, views, 5)
	for _, v := range views {
		assert.False(t, v.Overridden)
	}

	_, err = svc.SaveTemplate(ctx, "newsletter", 1, SaveTemplateRequest{Subject: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrUnknownTemplate)

	saved, err := svc.SaveTemplate(ctx, TemplatePasswordReset, 1, SaveTemplateRequest{Subject: "Reset", Content: "<a href=\"{{resetLink}}\">go</a>"})
	require.NoError(t, err)
	assert.True(t, saved.Overridden)
	assert.True(t, saved.IsActive)

	preview, err := svc.PreviewTemplate(ctx, TemplatePasswordReset, PreviewRequest{})
	require.NoError(t, err)
	assert.Equal(t, `<a href="https://nerd.test/reset-password?token=demo">go</a>`, preview.HTML)

	reset, err := svc.ResetTemplate(ctx, TemplatePasswordReset)
	require.NoError(t, err)
	assert.False(t, reset.Overridden)
}
