package booking

import (
	"context"
	"fmt"

	"nerdsociety/internal/database"
	"nerdsociety/internal/domain/payment"
	"nerdsociety/internal/pkg/applog"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var depositOutcomes = map[DepositMethod]struct {
	status DepositStatus
	method payment.Method
}{
	DepositMethodOnline: {DepositPaidOnline, payment.MethodBankTransfer},
	DepositMethodCash:   {DepositPaidCash, payment.MethodCash},
	DepositMethodWaived: {DepositWaived, ""},
}

// ConfirmPayment is the staff check of a deposit. A PENDING booking becomes
// CONFIRMED; a CASH booking that is already CONFIRMED only records the
// deposit.
func (s *Service) ConfirmPayment(ctx context.Context, id, actorID int64, method DepositMethod) (*Booking, error) {
	outcome, ok := depositOutcomes[method]
	if !ok {
		return nil, ErrInvalidDepositMethod
	}

	var confirmed bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		b, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if b.DepositStatus != DepositPending {
			return fmt.Errorf("%w: %s", ErrDepositSettled, b.DepositStatus)
		}

		now := s.now()
		updates := map[string]any{
			"deposit_status":       outcome.status,
			"deposit_confirmed_at": now,
			"deposit_confirmed_by": actorID,
		}
		if b.DepositPaidAt == nil && outcome.status.Collected() {
			updates["deposit_paid_at"] = now
		}

		switch {
		case b.Status == StatusConfirmed:
		case b.Status.CanTransitionTo(StatusConfirmed):
			updates["status"] = StatusConfirmed
			confirmed = true
		default:
			return fmt.Errorf("%w: booking is %s", ErrInvalidStatusTransition, b.Status)
		}

		payMethod, amount := outcome.method, b.DepositAmount
		if outcome.status == DepositWaived {
			payMethod, amount = b.PaymentMethod, 0
			if payMethod == "" {
				payMethod = payment.MethodCash
			}
		}
		if b.PaymentMethod == "" {
			updates["payment_method"] = payMethod
		}

		if err := repo.Transition(ctx, b.ID, b.Status, updates); err != nil {
			return err
		}
		_, err = s.payments.WithTx(tx).Complete(ctx, b.ID, payMethod, amount, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applog.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id":     b.ID,
		"deposit_status": b.DepositStatus,
		"confirmed_by":   actorID,
	}).Info("deposit confirmed")

	if confirmed {
		s.mail.SendBookingConfirmed(ctx, mailFor(b))
	}
	s.publish(ctx, EventConfirmed, b)
	return b, nil
}

// CheckIn starts the session. Pod bookings of signed in customers earn
// Nerd Coins; a failed issuance is logged and does not block check-in.
func (s *Service) CheckIn(ctx context.Context, id, actorID int64, req CheckInRequest) (*CheckInResult, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !current.Status.CanTransitionTo(StatusInProgress) {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidStatusTransition, current.Status)
	}
	isPod := current.Room != nil && current.Room.IsPod()

	result := &CheckInResult{Warnings: []string{}}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		b, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !b.Status.CanTransitionTo(StatusInProgress) {
			return fmt.Errorf("%w: booking is %s", ErrInvalidStatusTransition, b.Status)
		}

		now := s.now()
		updates := map[string]any{
			"status":            StatusInProgress,
			"actual_start_time": now,
		}

		deposit := b.DepositStatus
		if req.CollectCashDeposit && deposit == DepositPending {
			if _, err := s.payments.WithTx(tx).Complete(ctx, b.ID, payment.MethodCash, b.DepositAmount, actorID); err != nil {
				return err
			}
			deposit = DepositPaidCash
			updates["deposit_status"] = deposit
			updates["deposit_paid_at"] = now
			updates["deposit_confirmed_at"] = now
			updates["deposit_confirmed_by"] = actorID
		}
		if deposit == DepositPending {
			result.Warnings = append(result.Warnings, WarningDepositNotConfirmed)
		}

		if err := repo.Transition(ctx, b.ID, b.Status, updates); err != nil {
			return err
		}

		if isPod && b.UserID != nil && b.NerdCoinIssued == 0 {
			if coins := s.issueCoins(ctx, tx, b); coins > 0 {
				result.CoinsIssued = coins
				return repo.Update(ctx, b.ID, map[string]any{"nerd_coin_issued": coins})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Booking, err = s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	applog.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id":   id,
		"coins_issued": result.CoinsIssued,
		"warnings":     result.Warnings,
	}).Info("booking checked in")
	s.publish(ctx, EventCheckedIn, result.Booking)
	return result, nil
}

// issueCoins credits the customer inside a savepoint so a ledger failure
// leaves the check-in intact.
func (s *Service) issueCoins(ctx context.Context, tx *gorm.DB, b *Booking) int64 {
	if s.coins == nil {
		return 0
	}
	coins := s.coins.CoinsFor(b.EstimatedAmount)
	if coins <= 0 {
		return 0
	}

	err := tx.Transaction(func(sp *gorm.DB) error {
		_, err := s.coins.WithTx(sp).Earn(ctx, *b.UserID, b.ID, coins, "Check-in "+b.Code)
		return err
	})
	if err != nil {
		applog.FromContext(ctx).WithError(err).
			WithField("booking_id", b.ID).
			WithField("user_id", *b.UserID).
			Warn("nerd coin issuance failed")
		return 0
	}
	return coins
}

// PreviewCheckout computes the bill as if the customer left now. Nothing
// is stored.
func (s *Service) PreviewCheckout(ctx context.Context, id int64) (*CheckoutSummary, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(StatusCompleted) {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidStatusTransition, b.Status)
	}
	summary := ComputeCheckout(b, s.now(), s.overtimeRate(ctx))
	return &summary, nil
}

// CheckOut stores the bill and completes the booking. ActualEndTime lets
// staff settle at the time they previewed.
func (s *Service) CheckOut(ctx context.Context, id, actorID int64, req CheckoutRequest) (*Booking, *CheckoutSummary, error) {
	rate := s.overtimeRate(ctx)
	now := s.now()

	var summary CheckoutSummary
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		b, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !b.Status.CanTransitionTo(StatusCompleted) {
			return fmt.Errorf("%w: booking is %s", ErrInvalidStatusTransition, b.Status)
		}

		end := now
		if req.ActualEndTime != nil {
			end = req.ActualEndTime.UTC()
			if end.After(now) || (b.ActualStartTime != nil && end.Before(*b.ActualStartTime)) {
				return ErrInvalidActualEnd
			}
		}

		summary = ComputeCheckout(b, end, rate)
		return repo.Transition(ctx, b.ID, StatusInProgress, map[string]any{
			"status":           StatusCompleted,
			"actual_end_time":  summary.ActualEndTime,
			"actual_amount":    summary.ActualAmount,
			"overtime_minutes": summary.OvertimeMinutes,
			"surcharge_amount": summary.SurchargeAmount,
			"remaining_amount": summary.RemainingAmount,
		})
	})
	if err != nil {
		return nil, nil, err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	applog.FromContext(ctx).WithFields(logrus.Fields{
		"booking_id":       id,
		"overtime_minutes": summary.OvertimeMinutes,
		"remaining":        summary.RemainingAmount,
		"checked_out_by":   actorID,
	}).Info("booking checked out")
	s.publish(ctx, EventCompleted, b)
	return b, &summary, nil
}

// CancelByStaff is not bound by the customer cancel lead time.
func (s *Service) CancelByStaff(ctx context.Context, id, actorID int64, reason string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, b, reason, &actorID)
}

func (s *Service) cancel(ctx context.Context, b *Booking, reason string, actorID *int64) (*Booking, error) {
	if !b.Status.CanTransitionTo(StatusCancelled) {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidStatusTransition, b.Status)
	}

	err := s.repo.Transition(ctx, b.ID, b.Status, map[string]any{
		"status":        StatusCancelled,
		"cancel_reason": reason,
		"cancelled_at":  s.now(),
		"cancelled_by":  actorID,
	})
	if err != nil {
		return nil, err
	}

	b, err = s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	applog.FromContext(ctx).WithField("code", b.Code).WithField("by_staff", actorID != nil).Info("booking cancelled")
	s.mail.SendBookingCancelled(ctx, mailFor(b))
	s.publish(ctx, EventCancelled, b)
	return b, nil
}

// RescheduleByStaff skips the customer lead time.
func (s *Service) RescheduleByStaff(ctx context.Context, id int64, req RescheduleRequest) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.reschedule(ctx, b, req)
}

func (s *Service) reschedule(ctx context.Context, b *Booking, req RescheduleRequest) (*Booking, error) {
	if b.Status != StatusConfirmed {
		return nil, fmt.Errorf("%w: only confirmed bookings can be rescheduled", ErrInvalidStatusTransition)
	}

	start, _, err := s.slot(req.Date, req.StartTime, "")
	if err != nil {
		return nil, err
	}
	end := start.Add(b.Duration())
	if !start.After(s.now()) {
		return nil, ErrStartInPast
	}
	if start.Equal(b.StartTime) {
		return b, nil
	}

	loc, err := s.catalog.GetLocation(ctx, b.LocationID, false)
	if err != nil {
		return nil, err
	}
	if !loc.IsOpenBetween(start, end, s.loc) {
		return nil, ErrOutsideOpeningHours
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		taken, err := repo.HasOverlap(ctx, b.RoomID, start, end, b.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrSlotTaken
		}
		return repo.Transition(ctx, b.ID, StatusConfirmed, map[string]any{
			"start_time":       start,
			"end_time":         end,
			"reminder_sent_at": nil,
		})
	})
	if database.IsBookingOverlap(err) {
		err = ErrSlotTaken
	}
	if err != nil {
		return nil, err
	}

	previous := b.StartTime
	b, err = s.repo.GetByID(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	applog.FromContext(ctx).WithFields(logrus.Fields{
		"code":      b.Code,
		"old_start": previous,
		"new_start": b.StartTime,
	}).Info("booking rescheduled")
	s.publish(ctx, EventRescheduled, b)
	return b, nil
}

// MarkNoShow closes a confirmed booking whose customer never arrived.
func (s *Service) MarkNoShow(ctx context.Context, id, actorID int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanTransitionTo(StatusNoShow) {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidStatusTransition, b.Status)
	}
	if s.now().Before(b.StartTime) {
		return nil, ErrNoShowTooEarly
	}

	if err := s.repo.Transition(ctx, id, b.Status, map[string]any{"status": StatusNoShow}); err != nil {
		return nil, err
	}
	b, err = s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applog.FromContext(ctx).WithField("code", b.Code).WithField("marked_by", actorID).Info("booking marked as no-show")
	s.publish(ctx, EventNoShow, b)
	return b, nil
}

// SendReminder emails the check-in reminder for one confirmed booking.
func (s *Service) SendReminder(ctx context.Context, id int64) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusConfirmed {
		return nil, fmt.Errorf("%w: booking is %s", ErrInvalidStatusTransition, b.Status)
	}
	if err := s.remind(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// SendDueReminders reminds every confirmed booking starting within the
// reminder window that has not been reminded yet.
func (s *Service) SendDueReminders(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.repo.DueReminders(ctx, now, now.Add(s.cfg.ReminderWindow))
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		if err := s.remind(ctx, &due[i]); err != nil {
			applog.FromContext(ctx).WithError(err).WithField("code", due[i].Code).Error("reminder failed")
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *Service) remind(ctx context.Context, b *Booking) error {
	now := s.now()
	if err := s.repo.Update(ctx, b.ID, map[string]any{"reminder_sent_at": now}); err != nil {
		return err
	}
	b.ReminderSentAt = &now
	s.mail.SendCheckInReminder(ctx, mailFor(b))
	return nil
}

