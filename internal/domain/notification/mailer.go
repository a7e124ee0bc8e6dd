package notification

import (
	"context"
	"fmt"
	"mime"
	"net/smtp"
	"regexp"
	"strings"

	"nerdsociety/internal/config"
	"nerdsociety/internal/domain/setting"
	"nerdsociety/internal/pkg/applog"
)

type Message struct {
	To      string
	Subject string
	HTML    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

type SettingsReader interface {
	GetString(ctx context.Context, key, fallback string) string
	GetBool(ctx context.Context, key string, fallback bool) bool
}

// SMTPMailer sends through the SMTP server configured in settings, falling
// back to the environment. Without a host or credentials it only logs.
type SMTPMailer struct {
	settings SettingsReader
	fallback config.SMTPConfig
	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPMailer(settings SettingsReader, fallback config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{settings: settings, fallback: fallback, sendMail: smtp.SendMail}
}

func (m *SMTPMailer) resolve(ctx context.Context) config.SMTPConfig {
	return config.SMTPConfig{
		Host:     m.settings.GetString(ctx, setting.KeySMTPHost, m.fallback.Host),
		Port:     m.settings.GetString(ctx, setting.KeySMTPPort, m.fallback.Port),
		Username: m.settings.GetString(ctx, setting.KeySMTPUsername, m.fallback.Username),
		Password: m.settings.GetString(ctx, setting.KeySMTPPassword, m.fallback.Password),
		From:     m.settings.GetString(ctx, setting.KeySMTPFrom, m.fallback.From),
		FromName: m.settings.GetString(ctx, setting.KeySMTPFromName, m.fallback.FromName),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	cfg := m.resolve(ctx)
	if cfg.Host == "" || cfg.Username == "" || cfg.Password == "" {
		applog.FromContext(ctx).
			WithField("to", msg.To).
			WithField("subject", msg.Subject).
			Info("[MOCK EMAIL] smtp not configured, email not sent")
		return nil
	}

	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	port := cfg.Port
	if port == "" {
		port = "587"
	}

	raw := buildMessage(cfg.FromName, from, msg)
	auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	addr := fmt.Sprintf("%s:%s", cfg.Host, port)

	if err := m.sendMail(addr, auth, from, []string{msg.To}, raw); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

const boundary = "----=_NERD_SOCIETY_BOUNDARY"

var (
	tagPattern   = regexp.MustCompile(`<[^>]*>`)
	blankLines   = regexp.MustCompile(`\n{3,}`)
	headerUnsafe = strings.NewReplacer("\r", " ", "\n", " ")
)

func buildMessage(fromName, from string, msg Message) []byte {
	var sb strings.Builder

	sender := from
	if fromName != "" {
		sender = fmt.Sprintf("%s <%s>", mime.QEncoding.Encode("utf-8", headerUnsafe.Replace(fromName)), from)
	}

	sb.WriteString(fmt.Sprintf("From: %s\r\n", sender))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", headerUnsafe.Replace(msg.To)))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", headerUnsafe.Replace(msg.Subject))))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainText(msg.HTML) + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(msg.HTML + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))
	return []byte(sb.String())
}

func plainText(htmlBody string) string {
	text := tagPattern.ReplaceAllString(htmlBody, "")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(l)
	}
	return strings.TrimSpace(blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}
