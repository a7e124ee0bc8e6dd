package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"nerdsociety/internal/pkg/applog"
)

type TokenIssuer interface {
	GenerateToken(userID int64, role string) (string, error)
}

// ResetMailer delivers password reset links. Delivery is best effort.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, name, link string)
}

type Options struct {
	TokenPepper      string
	PasswordResetTTL time.Duration
	SiteURL          string
}

// Service contains all business logic for authentication
type Service struct {
	repo   Repository
	jwt    TokenIssuer
	mailer ResetMailer
	opts   Options
	now    func() time.Time
}

func NewService(repo Repository, jwt TokenIssuer, mailer ResetMailer, opts Options) *Service {
	if opts.PasswordResetTTL <= 0 {
		opts.PasswordResetTTL = time.Hour
	}
	return &Service{
		repo:   repo,
		jwt:    jwt,
		mailer: mailer,
		opts:   opts,
		now:    time.Now,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	exists, err := s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        NormalizeEmail(req.Email),
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         RoleCustomer,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return s.issue(user)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := CheckPassword(req.Password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	now := s.now().UTC()
	if err := s.repo.Update(ctx, user.ID, map[string]any{"last_login_at": now}); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	return s.issue(user)
}

func (s *Service) GetMe(ctx context.Context, userID int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	return user, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*User, error) {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, userID, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, userID)
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, req ChangePasswordRequest) error {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := CheckPassword(req.CurrentPassword, user.PasswordHash); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return s.repo.Update(ctx, userID, map[string]any{"password_hash": hash})
}

// RequestPasswordReset emails a single-use link. Unknown or disabled
// accounts get the same silent success so emails cannot be enumerated.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if !user.IsActive {
		return nil
	}

	raw, hash, err := generateOpaqueToken(s.opts.TokenPepper)
	if err != nil {
		return err
	}

	token := &PasswordResetToken{
		UserID:    user.ID,
		TokenHash: hash,
		ExpiresAt: s.now().UTC().Add(s.opts.PasswordResetTTL),
	}
	if err := s.repo.CreateResetToken(ctx, token); err != nil {
		return err
	}

	link := strings.TrimRight(s.opts.SiteURL, "/") + "/reset-password?token=" + url.QueryEscape(raw)
	if s.mailer != nil {
		s.mailer.SendPasswordReset(ctx, user.Email, user.Name, link)
	}

	applog.FromContext(ctx).WithField("user_id", user.ID).Info("password reset requested")
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	now := s.now()
	token, err := s.repo.GetActiveResetToken(ctx, hashTokenWithPepper(strings.TrimSpace(req.Token), s.opts.TokenPepper), now)
	if err != nil {
		return err
	}

	hash, err := HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	if err := s.repo.MarkResetTokenUsed(ctx, token.ID, now); err != nil {
		return err
	}
	return s.repo.Update(ctx, token.UserID, map[string]any{"password_hash": hash})
}

// CleanupResetTokens removes used and expired reset tokens.
func (s *Service) CleanupResetTokens(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpiredResetTokens(ctx, s.now())
}

func (s *Service) issue(user *User) (*AuthResult, error) {
	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, AccessToken: token, Permissions: user.Role.Permissions()}, nil
}

func (s *Service) IsActive(ctx context.Context, userID int64) (bool, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return user.IsActive, nil
}
