package notification

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"nerdsociety/internal/domain/setting"
	"nerdsociety/internal/pkg/applog"

	"github.com/sirupsen/logrus"
)

// Service sends transactional email. Every Send* call is best effort:
// failures are logged and never returned to the caller.
type Service struct {
	repo     TemplateRepository
	mailer   Mailer
	settings SettingsReader
	loc      *time.Location
	siteURL  string

	wg       sync.WaitGroup
	dispatch func(fn func())
}

func NewService(repo TemplateRepository, mailer Mailer, settings SettingsReader, loc *time.Location, siteURL string) *Service {
	if loc == nil {
		loc = time.UTC
	}
	s := &Service{
		repo:     repo,
		mailer:   mailer,
		settings: settings,
		loc:      loc,
		siteURL:  strings.TrimRight(siteURL, "/"),
	}
	s.dispatch = func(fn func()) {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			fn()
		}()
	}
	return s
}

// Wait blocks until in-flight emails are handed to the mailer.
func (s *Service) Wait() {
	s.wg.Wait()
}

func (s *Service) SendBookingPending(ctx context.Context, m BookingMail) {
	s.send(ctx, TemplateBookingPending, m.CustomerEmail, s.bookingVars(m))
}

func (s *Service) SendBookingConfirmed(ctx context.Context, m BookingMail) {
	s.send(ctx, TemplateBookingConfirmation, m.CustomerEmail, s.bookingVars(m))
}

func (s *Service) SendBookingCancelled(ctx context.Context, m BookingMail) {
	s.send(ctx, TemplateBookingCancelled, m.CustomerEmail, s.bookingVars(m))
}

func (s *Service) SendCheckInReminder(ctx context.Context, m BookingMail) {
	s.send(ctx, TemplateCheckInReminder, m.CustomerEmail, s.bookingVars(m))
}

func (s *Service) SendPasswordReset(ctx context.Context, to, name, link string) {
	s.send(ctx, TemplatePasswordReset, to, map[string]string{
		"customerName": name,
		"resetLink":    link,
	})
}

// Resolve returns the active override for name, or the built-in template.
func (s *Service) Resolve(ctx context.Context, name string) (subject, content string, err error) {
	def, ok := Lookup(name)
	if !ok {
		return "", "", ErrUnknownTemplate
	}

	override, err := s.repo.GetByName(ctx, name)
	if err != nil {
		applog.FromContext(ctx).WithError(err).WithField("template", name).Warn("template lookup failed, using built-in")
		return def.Subject, def.Content, nil
	}
	if override != nil && override.IsActive {
		return override.Subject, override.Content, nil
	}
	return def.Subject, def.Content, nil
}

func (s *Service) send(ctx context.Context, name, to string, vars map[string]string) {
	log := applog.FromContext(ctx).WithFields(logrus.Fields{"template": name, "to": to})

	if strings.TrimSpace(to) == "" {
		log.Debug("no recipient, email skipped")
		return
	}
	if s.settings != nil && !s.settings.GetBool(ctx, setting.NotifyPrefix+name, true) {
		log.Info("email disabled in settings, skipped")
		return
	}

	subject, content, err := s.Resolve(ctx, name)
	if err != nil {
		log.WithError(err).Error("email template missing")
		return
	}

	msg := Message{
		To:      to,
		Subject: Render(subject, vars, false),
		HTML:    Render(content, vars, true),
	}

	bg := context.WithoutCancel(ctx)
	s.dispatch(func() {
		if err := s.mailer.Send(bg, msg); err != nil {
			log.WithError(err).Error("email send failed")
			return
		}
		log.Info("email sent")
	})
}

func (s *Service) bookingVars(m BookingMail) map[string]string {
	start := m.StartTime.In(s.loc)
	end := m.EndTime.In(s.loc)

	reason := m.CancelReason
	if reason == "" {
		reason = "-"
	}

	return map[string]string{
		"customerName":    m.CustomerName,
		"bookingCode":     m.Code,
		"locationName":    m.LocationName,
		"locationAddress": m.LocationAddress,
		"roomName":        m.RoomName,
		"serviceName":     m.ServiceName,
		"date":            start.Format("02/01/2006"),
		"startTime":       start.Format("15:04"),
		"endTime":         end.Format("15:04"),
		"guestCount":      strconv.Itoa(m.GuestCount),
		"estimatedAmount": FormatVND(m.EstimatedAmount),
		"depositAmount":   FormatVND(m.DepositAmount),
		"cancelReason":    reason,
		"bookingUrl":      s.siteURL + "/booking/" + m.Code,
	}
}

// FormatVND renders 200000 as "200.000 ₫".
func FormatVND(amount int64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	digits := strconv.FormatInt(amount, 10)
	var sb strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte('.')
		}
		sb.WriteRune(r)
	}
	return sign + sb.String() + " ₫"
}
