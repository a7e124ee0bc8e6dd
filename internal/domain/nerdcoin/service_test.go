package nerdcoin

import (
	"context"
	"fmt"
	"testing"

	"nerdsociety/internal/config"
	"nerdsociety/internal/domain/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testConfig = config.NerdCoinConfig{VNDPerCoin: 10000, SilverThreshold: 100, GoldThreshold: 500}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:nerdcoin_test_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&auth.User{}, &Transaction{}))
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *auth.User {
	t.Helper()
	u := &auth.User{Email: email, PasswordHash: "x", Name: "Member", Role: auth.RoleCustomer, IsActive: true}
	require.NoError(t, db.Create(u).Error)
	return u
}

func ledgerSum(t *testing.T, db *gorm.DB, userID int64) int64 {
	t.Helper()
	var sum int64
	require.NoError(t, db.Model(&Transaction{}).Where("user_id = ?", userID).Select("COALESCE(SUM(amount), 0)").Scan(&sum).Error)
	return sum
}

func cachedBalance(t *testing.T, db *gorm.DB, userID int64) int64 {
	t.Helper()
	var u auth.User
	require.NoError(t, db.First(&u, userID).Error)
	return u.NerdCoinBalance
}

func TestLedgerMatchesCachedBalance(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig)
	ctx := context.Background()
	u := createUser(t, db, "member@nerd.vn")

	_, err := svc.Earn(ctx, u.ID, 1, svc.CoinsFor(200000), "Check-in NS1")
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, u.ID, TypeBonus, 50, "Welcome bonus", 7)
	require.NoError(t, err)
	_, err = svc.Adjust(ctx, u.ID, TypeAdjustment, -5, "Correction", 7)
	require.NoError(t, err)
	txn, err := svc.Redeem(ctx, u.ID, 30, "Free drink", 7)
	require.NoError(t, err)

	assert.Equal(t, int64(35), txn.BalanceAfter)
	assert.Equal(t, int64(-30), txn.Amount)
	assert.Equal(t, int64(35), cachedBalance(t, db, u.ID))
	assert.Equal(t, cachedBalance(t, db, u.ID), ledgerSum(t, db, u.ID))

	rec, err := svc.Reconcile(ctx, u.ID, false)
	require.NoError(t, err)
	assert.True(t, rec.Consistent)

	txns, total, err := svc.ListTransactions(ctx, u.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, txns, 4)
}

func TestEarnOncePerBooking(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig)
	ctx := context.Background()
	u := createUser(t, db, "pod@nerd.vn")

	first, err := svc.Earn(ctx, u.ID, 42, 20, "Check-in")
	require.NoError(t, err)
	again, err := svc.Earn(ctx, u.ID, 42, 20, "Check-in")
	require.NoError(t, err)

	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, int64(20), cachedBalance(t, db, u.ID))

	_, err = svc.Earn(ctx, u.ID, 43, 0, "nothing")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestRedeemAndAdjustGuards(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig)
	ctx := context.Background()
	u := createUser(t, db, "guard@nerd.vn")

	_, err := svc.Redeem(ctx, u.ID, 1, "", 0)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = svc.Adjust(ctx, u.ID, TypeEarn, 10, "", 1)
	assert.ErrorIs(t, err, ErrInvalidType)

	_, err = svc.Adjust(ctx, u.ID, TypeBonus, 0, "", 1)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Adjust(ctx, u.ID, TypeAdjustment, -1, "", 1)
	assert.ErrorIs(t, err, ErrNegativeBalance)

	_, err = svc.Redeem(ctx, 9999, 1, "", 0)
	assert.ErrorIs(t, err, ErrUserNotFound)

	assert.Equal(t, int64(0), cachedBalance(t, db, u.ID))
	assert.Equal(t, int64(0), ledgerSum(t, db, u.ID))
}

func TestReconcileFixesDrift(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig)
	ctx := context.Background()
	u := createUser(t, db, "drift@nerd.vn")

	_, err := svc.Adjust(ctx, u.ID, TypeBonus, 120, "", 1)
	require.NoError(t, err)
	require.NoError(t, db.Model(&auth.User{}).Where("id = ?", u.ID).Update("nerd_coin_balance", 999).Error)

	rec, err := svc.Reconcile(ctx, u.ID, false)
	require.NoError(t, err)
	assert.False(t, rec.Consistent)
	assert.False(t, rec.Fixed)
	assert.Equal(t, int64(999), rec.Cached)
	assert.Equal(t, int64(120), rec.Ledger)

	rec, err = svc.Reconcile(ctx, u.ID, true)
	require.NoError(t, err)
	assert.True(t, rec.Fixed)
	assert.Equal(t, int64(120), cachedBalance(t, db, u.ID))
}

func TestTiersAndSummary(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig)
	ctx := context.Background()

	assert.Equal(t, TierBronze, svc.TierFor(99))
	assert.Equal(t, TierSilver, svc.TierFor(100))
	assert.Equal(t, TierSilver, svc.TierFor(499))
	assert.Equal(t, TierGold, svc.TierFor(500))

	assert.Equal(t, int64(20), svc.CoinsFor(200000))
	assert.Equal(t, int64(0), svc.CoinsFor(9999))

	u := createUser(t, db, "tier@nerd.vn")
	_, err := svc.Adjust(ctx, u.ID, TypeBonus, 130, "", 1)
	require.NoError(t, err)

	sum, err := svc.Summary(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, TierSilver, sum.Tier)
	require.NotNil(t, sum.NextTier)
	assert.Equal(t, TierGold, *sum.NextTier)
	assert.Equal(t, int64(370), sum.CoinsToNextTier)

	_, err = svc.Adjust(ctx, u.ID, TypeBonus, 400, "", 1)
	require.NoError(t, err)
	sum, err = svc.Summary(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, TierGold, sum.Tier)
	assert.Nil(t, sum.NextTier)

	_, err = svc.Summary(ctx, 12345)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestWithTxRollsBackWithOuterTransaction(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig)
	ctx := context.Background()
	u := createUser(t, db, "tx@nerd.vn")

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := svc.WithTx(tx).Earn(ctx, u.ID, 5, 10, "Check-in"); err != nil {
			return err
		}
		return fmt.Errorf("check-in failed later")
	})
	require.Error(t, err)

	assert.Equal(t, int64(0), cachedBalance(t, db, u.ID))
	assert.Equal(t, int64(0), ledgerSum(t, db, u.ID))
}
