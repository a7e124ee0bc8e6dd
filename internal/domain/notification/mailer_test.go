package notification

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"

	"nerdsociety/internal/config"
	"nerdsociety/internal/domain/setting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapSettings map[string]string

func (m mapSettings) GetString(_ context.Context, key, fallback string) string {
	if v, ok := m[key]; ok && v != "" {
		return v
	}
	return fallback
}

func (m mapSettings) GetBool(_ context.Context, key string, fallback bool) bool {
	if v, ok := m[key]; ok {
		return v == "true"
	}
	return fallback
}

func TestSMTPMailer_MockModeWithoutHost(t *testing.T) {
	m := NewSMTPMailer(mapSettings{}, config.SMTPConfig{})
	m.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		t.Fatal("smtp must not be called without configuration")
		return nil
	}

	require.NoError(t, m.Send(context.Background(), Message{To: "a@b.vn", Subject: "Hi", HTML: "<p>Hi</p>"}))
}

func TestSMTPMailer_SettingsOverrideEnv(t *testing.T) {
	env := config.SMTPConfig{Host: "env.smtp", Port: "25", Username: "env-user", Password: "env-pass", FromName: "Nerd Society"}
	db := mapSettings{setting.KeySMTPHost: "db.smtp", setting.KeySMTPPort: "2525"}

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	m := NewSMTPMailer(db, env)
	m.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	require.NoError(t, m.Send(context.Background(), Message{To: "guest@nerd.vn", Subject: "Xác nhận", HTML: "<p>Chào</p>"}))
	assert.Equal(t, "db.smtp:2525", gotAddr)
	assert.Equal(t, "env-user", gotFrom)
	assert.Equal(t, []string{"guest@nerd.vn"}, gotTo)
	assert.Contains(t, string(gotMsg), "To: guest@nerd.vn\r\n")
	assert.Contains(t, string(gotMsg), "Content-Type: text/html; charset=utf-8")
}

func TestSMTPMailer_WrapsSendError(t *testing.T) {
	m := NewSMTPMailer(mapSettings{}, config.SMTPConfig{Host: "h", Username: "u", Password: "p"})
	m.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := m.Send(context.Background(), Message{To: "x@y.vn", Subject: "s", HTML: "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "x@y.vn")
}

func TestBuildMessage_StripsHeaderInjection(t *testing.T) {
	raw := string(buildMessage("Nerd", "noreply@nerd.vn", Message{
		To:      "a@b.vn\r\nBcc: evil@x.com",
		Subject: "Hello",
		HTML:    "<h2>Chào</h2>\n<p>Bạn</p>",
	}))

	assert.NotContains(t, raw, "\r\nBcc:")
	assert.True(t, strings.HasPrefix(raw, "From: "))
	assert.Contains(t, raw, "Chào\nBạn")
}
