package staff

import (
	"context"
	"fmt"
	"strings"

	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/domain/nerdcoin"
	"nerdsociety/internal/pkg/applog"

	"github.com/sirupsen/logrus"
)

var staffRoles = []auth.Role{auth.RoleStaff, auth.RoleManager, auth.RoleAdmin}

type TierCalculator interface {
	TierFor(balance int64) nerdcoin.Tier
}

// Service manages admin console accounts and the customer directory on top
// of the users table.
type Service struct {
	users auth.Repository
	tiers TierCalculator
}

func NewService(users auth.Repository, tiers TierCalculator) *Service {
	return &Service{users: users, tiers: tiers}
}

func (s *Service) ListStaff(ctx context.Context, query string, active *bool, page, pageSize int) ([]Member, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	users, total, err := s.users.List(ctx, auth.ListFilter{
		Roles:  staffRoles,
		Query:  query,
		Active: active,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]Member, 0, len(users))
	for _, u := range users {
		out = append(out, Member{User: u, Permissions: u.Role.Permissions()})
	}
	return out, total, nil
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Member, error) {
	if !req.Role.IsStaff() {
		return nil, ErrNotStaffRole
	}
	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, auth.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &auth.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Phone:        strings.TrimSpace(req.Phone),
		Role:         req.Role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("create staff member: %w", err)
	}

	applog.FromContext(ctx).WithFields(logrus.Fields{
		"user_id": u.ID,
		"role":    u.Role,
	}).Info("staff member created")
	return &Member{User: *u, Permissions: u.Role.Permissions()}, nil
}

// Update edits a staff account. Admins cannot lock themselves out by
// deactivating or demoting their own account.
func (s *Service) Update(ctx context.Context, actorID, id int64, req UpdateRequest) (*Member, error) {
	target, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !target.Role.IsStaff() {
		return nil, ErrNotStaffMember
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		updates["phone"] = strings.TrimSpace(*req.Phone)
	}
	if req.Role != nil && *req.Role != target.Role {
		if !req.Role.IsStaff() {
			return nil, ErrNotStaffRole
		}
		if actorID == id {
			return nil, ErrSelfLockout
		}
		updates["role"] = *req.Role
	}
	if req.IsActive != nil && *req.IsActive != target.IsActive {
		if actorID == id && !*req.IsActive {
			return nil, ErrSelfLockout
		}
		updates["is_active"] = *req.IsActive
	}
	if req.Password != nil {
		hash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := s.users.Update(ctx, id, updates); err != nil {
			return nil, err
		}
		delete(updates, "password_hash")
		applog.FromContext(ctx).WithFields(logrus.Fields{
			"user_id":  id,
			"actor_id": actorID,
			"fields":   len(updates),
		}).Info("staff member updated")
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Member{User: *u, Permissions: u.Role.Permissions()}, nil
}

func (s *Service) Deactivate(ctx context.Context, actorID, id int64) (*Member, error) {
	inactive := false
	return s.Update(ctx, actorID, id, UpdateRequest{IsActive: &inactive})
}

func (s *Service) ListCustomers(ctx context.Context, query string, page, pageSize int) ([]Customer, int64, error) {
	page, pageSize = normalizePage(page, pageSize)
	users, total, err := s.users.List(ctx, auth.ListFilter{
		Roles:  []auth.Role{auth.RoleCustomer},
		Query:  query,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]Customer, 0, len(users))
	for _, u := range users {
		out = append(out, s.customer(u))
	}
	return out, total, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (*Customer, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != auth.RoleCustomer {
		return nil, auth.ErrNotFound
	}
	c := s.customer(*u)
	return &c, nil
}

func (s *Service) customer(u auth.User) Customer {
	c := Customer{User: u}
	if s.tiers != nil {
		c.Tier = s.tiers.TierFor(u.NerdCoinBalance)
	}
	return c
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
