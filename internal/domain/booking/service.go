package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"nerdsociety/internal/config"
	"nerdsociety/internal/database"
	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/domain/catalog"
	"nerdsociety/internal/domain/nerdcoin"
	"nerdsociety/internal/domain/notification"
	"nerdsociety/internal/domain/payment"
	"nerdsociety/internal/domain/setting"
	"nerdsociety/internal/pkg/applog"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Notifier sends the booking emails. Implementations swallow failures.
type Notifier interface {
	SendBookingPending(ctx context.Context, m notification.BookingMail)
	SendBookingConfirmed(ctx context.Context, m notification.BookingMail)
	SendBookingCancelled(ctx context.Context, m notification.BookingMail)
	SendCheckInReminder(ctx context.Context, m notification.BookingMail)
}

type SettingsReader interface {
	GetInt64(ctx context.Context, key string, fallback int64) int64
	GetMinutes(ctx context.Context, key string, fallback time.Duration) time.Duration
}

// CustomerLookup fills contact details of signed in customers.
type CustomerLookup interface {
	GetMe(ctx context.Context, userID int64) (*auth.User, error)
}

type Deps struct {
	Repo      Repository
	Catalog   *catalog.Service
	Payments  *payment.Service
	Coins     *nerdcoin.Service
	Customers CustomerLookup
	Mail      Notifier
	Events    EventPublisher
	Settings  SettingsReader
	Config    config.BookingConfig
	Location  *time.Location
}

type Service struct {
	db        *gorm.DB
	repo      Repository
	catalog   *catalog.Service
	payments  *payment.Service
	coins     *nerdcoin.Service
	customers CustomerLookup
	mail      Notifier
	events    EventPublisher
	settings  SettingsReader
	cfg       config.BookingConfig
	loc       *time.Location

	now     func() time.Time
	newCode func() string
}

func NewService(db *gorm.DB, d Deps) *Service {
	s := &Service{
		db:        db,
		repo:      d.Repo,
		catalog:   d.Catalog,
		payments:  d.Payments,
		coins:     d.Coins,
		customers: d.Customers,
		mail:      d.Mail,
		events:    d.Events,
		settings:  d.Settings,
		cfg:       d.Config,
		loc:       d.Location,
		now:       func() time.Time { return time.Now().UTC() },
		newCode:   newCode,
	}
	if s.events == nil {
		s.events = noopPublisher{}
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	return s
}

const (
	codePrefix   = "NS"
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 6
	codeAttempts = 5
)

// newCode derives a short booking code from a random UUID, skipping
// characters that are easy to misread.
func newCode() string {
	id := uuid.New()
	var sb strings.Builder
	sb.WriteString(codePrefix)
	for i := 0; i < codeLength; i++ {
		sb.WriteByte(codeAlphabet[int(id[i])%len(codeAlphabet)])
	}
	return sb.String()
}

/* ---------- CUSTOMER ---------- */

// Create books a room for a guest or a signed in customer. The booking
// starts PENDING with half of the estimate due as deposit.
func (s *Service) Create(ctx context.Context, userID *int64, req CreateRequest) (*Booking, error) {
	start, end, err := s.slot(req.Date, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if !start.After(s.now()) {
		return nil, ErrStartInPast
	}

	sel, err := s.catalog.Select(ctx, req.LocationID, req.RoomID, req.ComboID)
	if err != nil {
		return nil, err
	}
	if !sel.Location.IsOpenBetween(start, end, s.loc) {
		return nil, ErrOutsideOpeningHours
	}
	if req.GuestCount > sel.Room.Capacity {
		return nil, fmt.Errorf("%w: capacity %d", ErrTooManyGuests, sel.Room.Capacity)
	}

	estimate, err := sel.Combo.Estimate(int(end.Sub(start) / time.Minute))
	if err != nil {
		return nil, err
	}

	b := &Booking{
		LocationID:      sel.Location.ID,
		RoomID:          sel.Room.ID,
		ComboID:         sel.Combo.ID,
		UserID:          userID,
		CustomerName:    strings.TrimSpace(req.CustomerName),
		CustomerPhone:   strings.TrimSpace(req.CustomerPhone),
		CustomerEmail:   strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		StartTime:       start,
		EndTime:         end,
		GuestCount:      req.GuestCount,
		Note:            strings.TrimSpace(req.Note),
		EstimatedAmount: estimate,
		DepositAmount:   DepositFor(estimate),
		DepositStatus:   DepositPending,
		Status:          StatusPending,
	}
	if err := s.fillContact(ctx, b); err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		taken, err := repo.HasOverlap(ctx, b.RoomID, b.StartTime, b.EndTime, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}
		return s.insertWithCode(ctx, tx, b)
	})
	if database.IsBookingOverlap(err) {
		err = ErrSlotTaken
	}
	if err != nil {
		return nil, err
	}

	b.Location, b.Room, b.Combo = sel.Location, sel.Room, sel.Combo

	applog.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id": b.ID,
		"code":       b.Code,
		"room_id":    b.RoomID,
		"estimate":   b.EstimatedAmount,
	}).Info("booking created")

	s.mail.SendBookingPending(ctx, mailFor(b))
	s.publish(ctx, EventCreated, b)
	return b, nil
}

// insertWithCode retries on code collisions. Each attempt runs in a
// savepoint so a failed insert does not poison the outer transaction.
func (s *Service) insertWithCode(ctx context.Context, tx *gorm.DB, b *Booking) error {
	for i := 0; i < codeAttempts; i++ {
		b.Code = s.newCode()
		err := tx.Transaction(func(sp *gorm.DB) error {
			return s.repo.WithTx(sp).Create(ctx, b)
		})
		if err == nil {
			return nil
		}
		if database.IsBookingOverlap(err) || !database.IsUniqueViolation(err) {
			return err
		}
		b.ID = 0
	}
	return ErrCodeGeneration
}

func (s *Service) fillContact(ctx context.Context, b *Booking) error {
	if b.UserID != nil && s.customers != nil {
		u, err := s.customers.GetMe(ctx, *b.UserID)
		if err != nil {
			return err
		}
		if b.CustomerName == "" {
			b.CustomerName = u.Name
		}
		if b.CustomerPhone == "" {
			b.CustomerPhone = u.Phone
		}
		if b.CustomerEmail == "" {
			b.CustomerEmail = u.Email
		}
	}
	if b.CustomerName == "" || b.CustomerPhone == "" {
		return ErrMissingContact
	}
	return nil
}

// slot turns a local date and clock times into a UTC range.
func (s *Service) slot(date, from, to string) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", date, s.loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidSlot)
	}
	startMin, err := catalog.ParseClock(from)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	if to == "" {
		return atMinute(day, startMin, s.loc), time.Time{}, nil
	}
	endMin, err := catalog.ParseClock(to)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidSlot, err)
	}
	if endMin <= startMin {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end must be after start", ErrInvalidSlot)
	}
	return atMinute(day, startMin, s.loc), atMinute(day, endMin, s.loc), nil
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Booking, error) {
	return s.repo.GetByCode(ctx, code)
}

// SelectPaymentMethod records how the customer pays the deposit. CASH
// confirms the booking at once and leaves the deposit for check-in.
func (s *Service) SelectPaymentMethod(ctx context.Context, code string, method payment.Method) (*PaymentSelection, error) {
	if err := payment.CheckMethod(method); err != nil {
		return nil, err
	}
	b, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidStatusTransition, b.Status)
	}
	now := s.now()

	if method == payment.MethodCash {
		return s.selectCash(ctx, b, now)
	}

	transfer, err := s.payments.TransferInfo(ctx, b.Code, b.DepositAmount)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.payments.WithTx(tx).Open(ctx, b.ID, method, b.DepositAmount, transfer.Description); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Transition(ctx, b.ID, StatusPending, map[string]any{
			"payment_method":     method,
			"payment_started_at": now,
		})
	})
	if err != nil {
		return nil, err
	}

	deadline := now.Add(s.cfg.PaymentWindow)
	b, err = s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	return &PaymentSelection{Booking: b, Transfer: transfer, PaymentDeadline: &deadline}, nil
}

func (s *Service) selectCash(ctx context.Context, b *Booking, now time.Time) (*PaymentSelection, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := s.payments.WithTx(tx).Open(ctx, b.ID, payment.MethodCash, b.DepositAmount, "Cash at check-in"); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Transition(ctx, b.ID, StatusPending, map[string]any{
			"status":             StatusConfirmed,
			"payment_method":     payment.MethodCash,
			"payment_started_at": now,
		})
	})
	if err != nil {
		return nil, err
	}

	b, err = s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	applog.FromContext(ctx).WithField("code", b.Code).Info("booking confirmed with cash deposit at check-in")
	s.mail.SendBookingConfirmed(ctx, mailFor(b))
	s.publish(ctx, EventConfirmed, b)
	return &PaymentSelection{Booking: b}, nil
}

// ReportPayment stores the customer's claim that the transfer was made.
// Status does not change until staff confirms it.
func (s *Service) ReportPayment(ctx context.Context, code string) (*Booking, error) {
	b, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidStatusTransition, b.Status)
	}
	if b.PaymentMethod != payment.MethodBankTransfer {
		return nil, ErrPaymentNotSelected
	}
	if b.DepositPaidAt != nil {
		return b, nil
	}

	now := s.now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.payments.WithTx(tx).MarkReported(ctx, b.ID); err != nil {
			return err
		}
		return s.repo.WithTx(tx).Transition(ctx, b.ID, StatusPending, map[string]any{
			"deposit_paid_at": now,
		})
	})
	if err != nil {
		return nil, err
	}

	b, err = s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	applog.FromContext(ctx).WithField("code", b.Code).Info("customer reported deposit transfer")
	s.publish(ctx, EventPaymentReported, b)
	return b, nil
}

// CancelByCustomer cancels through the booking code, only while the start
// is at least the cancel lead time away.
func (s *Service) CancelByCustomer(ctx context.Context, code, reason string) (*Booking, error) {
	b, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(StatusCancelled) {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidStatusTransition, b.Status)
	}
	lead := s.CancelLeadTime(ctx)
	if b.StartTime.Sub(s.now()) < lead {
		return nil, fmt.Errorf("%w: cancel at least %s before start", ErrCancellationWindow, lead)
	}
	return s.cancel(ctx, b, reason, nil)
}

// RescheduleByCustomer moves a confirmed booking to another start on the
// same room, keeping its length.
func (s *Service) RescheduleByCustomer(ctx context.Context, code string, req RescheduleRequest) (*Booking, error) {
	b, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if b.StartTime.Sub(s.now()) < s.cfg.RescheduleLeadTime {
		return nil, fmt.Errorf("%w: reschedule at least %s before start", ErrRescheduleWindow, s.cfg.RescheduleLeadTime)
	}
	return s.reschedule(ctx, b, req)
}

func (s *Service) MyBookings(ctx context.Context, userID int64, page, pageSize int) ([]Booking, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	return s.repo.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
}

/* ---------- STAFF ---------- */

func (s *Service) GetByID(ctx context.Context, id int64) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Booking, int64, error) {
	f.Page, f.PageSize = normalizePage(f.Page, f.PageSize)
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, f.Status)
	}

	var from, to *time.Time
	if f.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", f.Date, s.loc)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidFilter)
		}
		start, end := dayBounds(day, s.loc)
		from, to = &start, &end
	}
	return s.repo.List(ctx, f, from, to)
}

// Stats summarises bookings starting on a local day; an empty date means
// today.
func (s *Service) Stats(ctx context.Context, date string, locationID int64) (*Stats, error) {
	now := s.now()
	day := now.In(s.loc)
	if date != "" {
		var err error
		if day, err = time.ParseInLocation("2006-01-02", date, s.loc); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidFilter)
		}
	}
	from, to := dayBounds(day, s.loc)

	st, err := s.repo.Stats(ctx, from, to, now, locationID)
	if err != nil {
		return nil, err
	}
	st.Date = day.Format("2006-01-02")
	return st, nil
}

// CancelLeadTime is the settings override or the configured default.
func (s *Service) CancelLeadTime(ctx context.Context) time.Duration {
	return s.settings.GetMinutes(ctx, setting.KeyCancelLeadMinutes, s.cfg.CancelLeadTime)
}

func (s *Service) overtimeRate(ctx context.Context) int64 {
	return s.settings.GetInt64(ctx, setting.KeyOvertimeRatePerMinute, s.cfg.OvertimeRatePerMinute)
}

func (s *Service) publish(ctx context.Context, eventType string, b *Booking) {
	s.events.Publish(ctx, eventType, payloadFor(b))
}

func mailFor(b *Booking) notification.BookingMail {
	m := notification.BookingMail{
		Code:            b.Code,
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		CustomerPhone:   b.CustomerPhone,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		GuestCount:      b.GuestCount,
		EstimatedAmount: b.EstimatedAmount,
		DepositAmount:   b.DepositAmount,
		CancelReason:    b.CancelReason,
	}
	if b.Location != nil {
		m.LocationName = b.Location.Name
		m.LocationAddress = b.Location.Address
	}
	if b.Room != nil {
		m.RoomName = b.Room.Name
	}
	if b.Combo != nil {
		m.ServiceName = b.Combo.Name
	}
	return m
}

func dayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return page, pageSize
}
