package staff

import (
	"context"
	"fmt"
	"testing"

	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/domain/nerdcoin"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type thresholdTiers struct{}

func (thresholdTiers) TierFor(balance int64) nerdcoin.Tier {
	switch {
	case balance >= 500:
		return nerdcoin.TierGold
	case balance >= 100:
		return nerdcoin.TierSilver
	}
	return nerdcoin.TierBronze
}

func setupTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:staff_service_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auth.User{}))

	return NewService(auth.NewRepository(db), thresholdTiers{}), db
}

func seedUser(t *testing.T, db *gorm.DB, email string, role auth.Role, balance int64) *auth.User {
	t.Helper()
	u := &auth.User{Email: email, PasswordHash: "x", Name: email, Role: role, IsActive: true, NerdCoinBalance: balance}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestCreate(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, CreateRequest{Email: " Thu.Ngan@Nerd.vn ", Password: "quay-le-tan", Name: "Thu Ngân", Role: auth.RoleStaff})
	require.NoError(t, err)
	assert.Equal(t, "thu.ngan@nerd.vn", m.Email)
	assert.True(t, m.IsActive)
	assert.Contains(t, m.Permissions, auth.PermBookingsCheckIn)
	assert.NotContains(t, m.Permissions, auth.PermStaffManage)

	var stored auth.User
	require.NoError(t, db.First(&stored, m.ID).Error)
	assert.NoError(t, auth.CheckPassword("quay-le-tan", stored.PasswordHash))

	_, err = svc.Create(ctx, CreateRequest{Email: "thu.ngan@nerd.vn", Password: "quay-le-tan", Name: "Dup", Role: auth.RoleStaff})
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)

	_, err = svc.Create(ctx, CreateRequest{Email: "khach@nerd.vn", Password: "quay-le-tan", Name: "Khách", Role: auth.RoleCustomer})
	assert.ErrorIs(t, err, ErrNotStaffRole)
}

func TestUpdate_SelfLockout(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	admin := seedUser(t, db, "admin@nerd.vn", auth.RoleAdmin, 0)
	staff := seedUser(t, db, "staff@nerd.vn", auth.RoleStaff, 0)

	_, err := svc.Deactivate(ctx, admin.ID, admin.ID)
	assert.ErrorIs(t, err, ErrSelfLockout)

	demoted := auth.RoleManager
	_, err = svc.Update(ctx, admin.ID, admin.ID, UpdateRequest{Role: &demoted})
	assert.ErrorIs(t, err, ErrSelfLockout)

	name := "Quản trị"
	self, err := svc.Update(ctx, admin.ID, admin.ID, UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Quản trị", self.Name)

	promoted, err := svc.Update(ctx, admin.ID, staff.ID, UpdateRequest{Role: &demoted})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleManager, promoted.Role)
	assert.Contains(t, promoted.Permissions, auth.PermPostsManage)

	off, err := svc.Deactivate(ctx, admin.ID, staff.ID)
	require.NoError(t, err)
	assert.False(t, off.IsActive)
}

func TestUpdate_RejectsCustomers(t *testing.T) {
	svc, db := setupTestService(t)
	admin := seedUser(t, db, "admin@nerd.vn", auth.RoleAdmin, 0)
	customer := seedUser(t, db, "khach@nerd.vn", auth.RoleCustomer, 0)

	_, err := svc.Deactivate(context.Background(), admin.ID, customer.ID)
	assert.ErrorIs(t, err, ErrNotStaffMember)

	_, err = svc.Deactivate(context.Background(), admin.ID, 999)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestListStaffAndCustomers(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	seedUser(t, db, "admin@nerd.vn", auth.RoleAdmin, 0)
	seedUser(t, db, "staff@nerd.vn", auth.RoleStaff, 0)
	gold := seedUser(t, db, "vang@nerd.vn", auth.RoleCustomer, 650)
	seedUser(t, db, "bac@nerd.vn", auth.RoleCustomer, 120)

	members, total, err := svc.ListStaff(ctx, "", nil, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, members, 2)

	customers, total, err := svc.ListCustomers(ctx, "vang", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, customers, 1)
	assert.Equal(t, nerdcoin.TierGold, customers[0].Tier)

	c, err := svc.GetCustomer(ctx, gold.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(650), c.NerdCoinBalance)

	_, err = svc.GetCustomer(ctx, members[0].ID)
	assert.ErrorIs(t, err, auth.ErrNotFound)
}
