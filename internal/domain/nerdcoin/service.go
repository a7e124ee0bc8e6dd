package nerdcoin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nerdsociety/internal/config"
	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/pkg/applog"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidAmount     = errors.New("amount must be non-zero")
	ErrInvalidType       = errors.New("only BONUS and ADJUSTMENT can be applied manually")
	ErrInsufficientFunds = errors.New("insufficient nerd coin balance")
	ErrNegativeBalance   = errors.New("adjustment would make the balance negative")
	ErrUserNotFound      = errors.New("user not found")
)

// Service owns the Nerd Coin ledger. Every write locks the user row, moves
// users.nerd_coin_balance and appends a ledger entry in one transaction, so
// the cached balance always equals the ledger sum.
type Service struct {
	db  *gorm.DB
	cfg config.NerdCoinConfig
}

func NewService(db *gorm.DB, cfg config.NerdCoinConfig) *Service {
	return &Service{db: db, cfg: cfg}
}

// WithTx runs writes inside an outer transaction.
func (s *Service) WithTx(tx *gorm.DB) *Service {
	return &Service{db: tx, cfg: s.cfg}
}

// CoinsFor converts a booking amount into earned coins, rounding down.
func (s *Service) CoinsFor(amount int64) int64 {
	if amount <= 0 || s.cfg.VNDPerCoin <= 0 {
		return 0
	}
	return amount / s.cfg.VNDPerCoin
}

func (s *Service) TierFor(balance int64) Tier {
	switch {
	case balance >= s.cfg.GoldThreshold:
		return TierGold
	case balance >= s.cfg.SilverThreshold:
		return TierSilver
	default:
		return TierBronze
	}
}

// Earn credits coins for a checked-in booking. A booking earns once; a
// repeat call returns the original entry.
func (s *Service) Earn(ctx context.Context, userID, bookingID, coins int64, description string) (*Transaction, error) {
	if coins <= 0 {
		return nil, ErrInvalidAmount
	}

	var existing Transaction
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND booking_id = ? AND type = ?", userID, bookingID, TypeEarn).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.apply(ctx, entry{
		userID:      userID,
		amount:      coins,
		kind:        TypeEarn,
		description: description,
		bookingID:   &bookingID,
	})
}

func (s *Service) Redeem(ctx context.Context, userID, coins int64, description string, actorID int64) (*Transaction, error) {
	if coins <= 0 {
		return nil, ErrInvalidAmount
	}
	return s.apply(ctx, entry{
		userID:      userID,
		amount:      -coins,
		kind:        TypeRedeem,
		description: description,
		actorID:     optionalID(actorID),
	})
}

// Adjust applies a manual BONUS or ADJUSTMENT by staff.
func (s *Service) Adjust(ctx context.Context, userID int64, kind TransactionType, delta int64, description string, actorID int64) (*Transaction, error) {
	if kind != TypeBonus && kind != TypeAdjustment {
		return nil, ErrInvalidType
	}
	if delta == 0 {
		return nil, ErrInvalidAmount
	}
	return s.apply(ctx, entry{
		userID:      userID,
		amount:      delta,
		kind:        kind,
		description: description,
		actorID:     optionalID(actorID),
	})
}

func (s *Service) Summary(ctx context.Context, userID int64) (*Summary, error) {
	var user auth.User
	if err := s.db.WithContext(ctx).Select("id", "nerd_coin_balance").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.summarize(user.ID, user.NerdCoinBalance), nil
}

func (s *Service) summarize(userID, balance int64) *Summary {
	sum := &Summary{UserID: userID, Balance: balance, Tier: s.TierFor(balance)}
	var next Tier
	switch sum.Tier {
	case TierBronze:
		next = TierSilver
		sum.CoinsToNextTier = s.cfg.SilverThreshold - balance
	case TierSilver:
		next = TierGold
		sum.CoinsToNextTier = s.cfg.GoldThreshold - balance
	default:
		return sum
	}
	sum.NextTier = &next
	return sum
}

func (s *Service) ListTransactions(ctx context.Context, userID int64, limit, offset int) ([]Transaction, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := s.db.WithContext(ctx).Model(&Transaction{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var txns []Transaction
	if err := q.Order("created_at desc").Limit(limit).Offset(offset).Find(&txns).Error; err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

// Reconcile compares the cached balance with the ledger sum and, when fix
// is set, rewrites the cached value from the ledger.
func (s *Service) Reconcile(ctx context.Context, userID int64, fix bool) (*Reconciliation, error) {
	var rec *Reconciliation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, userID)
		if err != nil {
			return err
		}

		var ledger int64
		if err := tx.Model(&Transaction{}).
			Where("user_id = ?", userID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&ledger).Error; err != nil {
			return err
		}

		rec = &Reconciliation{
			UserID:     userID,
			Cached:     user.NerdCoinBalance,
			Ledger:     ledger,
			Consistent: user.NerdCoinBalance == ledger,
		}
		if rec.Consistent || !fix {
			return nil
		}

		if err := tx.Model(&auth.User{}).Where("id = ?", userID).Update("nerd_coin_balance", ledger).Error; err != nil {
			return err
		}
		rec.Fixed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !rec.Consistent {
		applog.FromContext(ctx).WithFields(logrus.Fields{
			"user_id": userID,
			"cached":  rec.Cached,
			"ledger":  rec.Ledger,
			"fixed":   rec.Fixed,
		}).Warn("nerd coin balance drift")
	}
	return rec, nil
}

type entry struct {
	userID      int64
	amount      int64
	kind        TransactionType
	description string
	bookingID   *int64
	actorID     *int64
}

func (s *Service) apply(ctx context.Context, e entry) (*Transaction, error) {
	var txn Transaction
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := lockUser(tx, e.userID)
		if err != nil {
			return err
		}

		balance := user.NerdCoinBalance + e.amount
		if balance < 0 {
			if e.kind == TypeRedeem {
				return ErrInsufficientFunds
			}
			return ErrNegativeBalance
		}

		if err := tx.Model(&auth.User{}).Where("id = ?", e.userID).Update("nerd_coin_balance", balance).Error; err != nil {
			return err
		}

		txn = Transaction{
			UserID:       e.userID,
			Amount:       e.amount,
			Type:         e.kind,
			Description:  strings.TrimSpace(e.description),
			BookingID:    e.bookingID,
			ActorID:      e.actorID,
			BalanceAfter: balance,
		}
		return tx.Omit("User").Create(&txn).Error
	})
	if err != nil {
		return nil, err
	}

	applog.FromContext(ctx).WithFields(logrus.Fields{
		"user_id":       e.userID,
		"type":          e.kind,
		"amount":        e.amount,
		"balance_after": txn.BalanceAfter,
	}).Info("nerd coin ledger updated")
	return &txn, nil
}

func lockUser(tx *gorm.DB, userID int64) (*auth.User, error) {
	var user auth.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "nerd_coin_balance").
		First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrUserNotFound, userID)
		}
		return nil, err
	}
	return &user, nil
}

func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}
