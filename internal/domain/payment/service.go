package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"nerdsociety/internal/config"
	"nerdsociety/internal/domain/setting"
	"nerdsociety/internal/pkg/applog"
	"nerdsociety/internal/pkg/vietqr"

	"gorm.io/gorm"
)

type SettingsReader interface {
	GetString(ctx context.Context, key, fallback string) string
}

// Transfer is what the customer needs to pay a deposit by bank transfer.
type Transfer struct {
	vietqr.Payload
	QRImageURL string `json:"qr_image_url"`
}

type Service struct {
	repo     Repository
	settings SettingsReader
	bank     config.VietQRConfig
	now      func() time.Time
}

func NewService(repo Repository, settings SettingsReader, bank config.VietQRConfig) *Service {
	return &Service{
		repo:     repo,
		settings: settings,
		bank:     bank,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithTx binds the service to an open transaction.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	cp := *s
	cp.repo = s.repo.WithTx(tx)
	return &cp
}

// CheckMethod rejects unknown and switched off methods.
func CheckMethod(m Method) error {
	if !m.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidMethod, m)
	}
	if !m.Enabled() {
		return fmt.Errorf("%w: %s", ErrMethodDisabled, m)
	}
	return nil
}

func (s *Service) GetByBookingID(ctx context.Context, bookingID int64) (*Payment, error) {
	return s.repo.GetByBookingID(ctx, bookingID)
}

// Open starts (or switches) the pending deposit payment of a booking.
func (s *Service) Open(ctx context.Context, bookingID int64, method Method, amount int64, description string) (*Payment, error) {
	if err := CheckMethod(method); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByBookingID(ctx, bookingID)
	switch {
	case err == nil && existing.Status == StatusCompleted:
		return nil, ErrAlreadyCompleted
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, err
	}

	p := &Payment{
		BookingID:   bookingID,
		Method:      method,
		Status:      StatusPending,
		Amount:      amount,
		Description: description,
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return nil, err
	}

	applog.FromContext(ctx).
		WithField("booking_id", bookingID).
		WithField("method", method).
		Info("payment opened")
	return s.repo.GetByBookingID(ctx, bookingID)
}

func (s *Service) MarkReported(ctx context.Context, bookingID int64) error {
	return s.repo.MarkReported(ctx, bookingID, s.now())
}

// Complete marks the deposit as received. Calling it twice is harmless.
func (s *Service) Complete(ctx context.Context, bookingID int64, method Method, amount int64, actorID int64) (*Payment, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}

	var actor *int64
	if actorID > 0 {
		actor = &actorID
	}

	p := &Payment{BookingID: bookingID, Method: method, Amount: amount}
	changed, err := s.repo.MarkCompletedIdempotent(ctx, p, s.now(), actor)
	if err != nil {
		return nil, err
	}
	if changed {
		applog.FromContext(ctx).
			WithField("booking_id", bookingID).
			WithField("method", method).
			WithField("confirmed_by", actorID).
			Info("payment completed")
	}
	return p, nil
}

// TransferInfo builds the VietQR transfer for a booking deposit. Bank
// settings override the environment.
func (s *Service) TransferInfo(ctx context.Context, bookingCode string, amount int64) (*Transfer, error) {
	payload := vietqr.Payload{
		BankID:      s.settings.GetString(ctx, setting.KeyVietQRBankID, s.bank.BankID),
		AccountNo:   s.settings.GetString(ctx, setting.KeyVietQRAccountNo, s.bank.AccountNo),
		AccountName: s.settings.GetString(ctx, setting.KeyVietQRAccountName, s.bank.AccountName),
		Amount:      amount,
		Description: vietqr.TransferDescription(bookingCode),
		Template:    s.bank.Template,
	}
	if err := payload.Validate(); err != nil {
		if errors.Is(err, vietqr.ErrMissingAccount) {
			return nil, ErrBankNotConfigured
		}
		return nil, err
	}
	return &Transfer{Payload: payload, QRImageURL: payload.QuickLinkURL()}, nil
}
