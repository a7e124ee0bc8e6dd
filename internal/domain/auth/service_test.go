package auth

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeIssuer struct{}

func (fakeIssuer) GenerateToken(userID int64, role string) (string, error) {
	return fmt.Sprintf("token-%d-%s", userID, role), nil
}

type capturedReset struct {
	to, name, link string
}

type fakeResetMailer struct {
	sent []capturedReset
}

func (m *fakeResetMailer) SendPasswordReset(_ context.Context, to, name, link string) {
	m.sent = append(m.sent, capturedReset{to: to, name: name, link: link})
}

func setupTestService(t *testing.T) (*Service, *GormRepository, *fakeResetMailer) {
	t.Helper()

	dsn := fmt.Sprintf("file:auth_service_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}, &PasswordResetToken{}))

	repo := NewRepository(db)
	mailer := &fakeResetMailer{}
	svc := NewService(repo, fakeIssuer{}, mailer, Options{
		TokenPepper:      "pepper",
		PasswordResetTTL: time.Hour,
		SiteURL:          "https://nerd.test/",
	})
	return svc, repo, mailer
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterRequest{Email: " An@Nerd.VN ", Password: "secret123", Name: "An"})
	require.NoError(t, err)
	assert.Equal(t, "an@nerd.vn", res.User.Email)
	assert.Equal(t, RoleCustomer, res.User.Role)
	assert.True(t, res.User.IsActive)
	assert.Contains(t, res.AccessToken, "CUSTOMER")

	_, err = svc.Register(ctx, RegisterRequest{Email: "an@nerd.vn", Password: "secret123", Name: "An"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)

	login, err := svc.Login(ctx, LoginRequest{Email: "AN@nerd.vn", Password: "secret123"})
	require.NoError(t, err)
	assert.NotNil(t, login.User.LastLoginAt)

	_, err = svc.Login(ctx, LoginRequest{Email: "an@nerd.vn", Password: "wrong-pass"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@nerd.vn", Password: "secret123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	svc, repo, _ := setupTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterRequest{Email: "off@nerd.vn", Password: "secret123", Name: "Off"})
	require.NoError(t, err)
	require.NoError(t, repo.Update(ctx, res.User.ID, map[string]any{"is_active": false}))

	_, err = svc.Login(ctx, LoginRequest{Email: "off@nerd.vn", Password: "secret123"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestPasswordResetFlow(t *testing.T) {
	svc, _, mailer := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "reset@nerd.vn", Password: "secret123", Name: "Reset"})
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(ctx, "unknown@nerd.vn"))
	assert.Empty(t, mailer.sent)

	require.NoError(t, svc.RequestPasswordReset(ctx, "reset@nerd.vn"))
	require.Len(t, mailer.sent, 1)
	assert.True(t, strings.HasPrefix(mailer.sent[0].link, "https://nerd.test/reset-password?token="))

	link, err := url.Parse(mailer.sent[0].link)
	require.NoError(t, err)
	token := link.Query().Get("token")

	require.NoError(t, svc.ResetPassword(ctx, ResetPasswordRequest{Token: token, NewPassword: "brand-new-1"}))
	assert.ErrorIs(t, svc.ResetPassword(ctx, ResetPasswordRequest{Token: token, NewPassword: "another-one"}), ErrInvalidResetToken)

	_, err = svc.Login(ctx, LoginRequest{Email: "reset@nerd.vn", Password: "brand-new-1"})
	require.NoError(t, err)

	removed, err := svc.CleanupResetTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestResetPassword_Expired(t *testing.T) {
	svc, _, mailer := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterRequest{Email: "late@nerd.vn", Password: "secret123", Name: "Late"})
	require.NoError(t, err)
	require.NoError(t, svc.RequestPasswordReset(ctx, "late@nerd.vn"))

	link, _ := url.Parse(mailer.sent[0].link)
	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	err = svc.ResetPassword(ctx, ResetPasswordRequest{Token: link.Query().Get("token"), NewPassword: "brand-new-1"})
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestChangePasswordAndProfile(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	res, err := svc.Register(ctx, RegisterRequest{Email: "me@nerd.vn", Password: "secret123", Name: "Me"})
	require.NoError(t, err)

	name, phone := "Minh", "0901234567"
	user, err := svc.UpdateProfile(ctx, res.User.ID, UpdateProfileRequest{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Minh", user.Name)
	assert.Equal(t, "0901234567", user.Phone)

	err = svc.ChangePassword(ctx, res.User.ID, ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "secret456"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	err = svc.ChangePassword(ctx, res.User.ID, ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "short"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	require.NoError(t, svc.ChangePassword(ctx, res.User.ID, ChangePasswordRequest{CurrentPassword: "secret123", NewPassword: "secret456"}))
	_, err = svc.Login(ctx, LoginRequest{Email: "me@nerd.vn", Password: "secret456"})
	require.NoError(t, err)
}
