package nerdcoin

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"nerdsociety/internal/domain/auth"
)

type TransactionType string

const (
	TypeEarn       TransactionType = "EARN"
	TypeRedeem     TransactionType = "REDEEM"
	TypeBonus      TransactionType = "BONUS"
	TypeExpired    TransactionType = "EXPIRED"
	TypeAdjustment TransactionType = "ADJUSTMENT"
)

// Transaction is one append-only ledger entry. Amount is signed.
type Transaction struct {
	ID           uuid.UUID       `json:"id" gorm:"type:uuid;primaryKey"`
	UserID       int64           `json:"user_id" gorm:"not null;index"`
	Amount       int64           `json:"amount" gorm:"not null"`
	Type         TransactionType `json:"type" gorm:"type:varchar(16);not null;index;check:type IN ('EARN','REDEEM','BONUS','EXPIRED','ADJUSTMENT')"`
	Description  string          `json:"description" gorm:"size:255"`
	BookingID    *int64          `json:"booking_id,omitempty" gorm:"index"`
	ActorID      *int64          `json:"actor_id,omitempty"`
	BalanceAfter int64           `json:"balance_after" gorm:"not null"`
	CreatedAt    time.Time       `json:"created_at" gorm:"autoCreateTime;index"`

	User *auth.User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Transaction) TableName() string {
	return "nerd_coin_transactions"
}

func (t *Transaction) BeforeCreate(_ *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

type Tier string

const (
	TierBronze Tier = "BRONZE"
	TierSilver Tier = "SILVER"
	TierGold   Tier = "GOLD"
)

// Summary is a member's balance with loyalty tier progress.
type Summary struct {
	UserID          int64 `json:"user_id"`
	Balance         int64 `json:"balance"`
	Tier            Tier  `json:"tier"`
	NextTier        *Tier `json:"next_tier,omitempty"`
	CoinsToNextTier int64 `json:"coins_to_next_tier"`
}

type Reconciliation struct {
	UserID     int64 `json:"user_id"`
	Cached     int64 `json:"cached_balance"`
	Ledger     int64 `json:"ledger_balance"`
	Consistent bool  `json:"consistent"`
	Fixed      bool  `json:"fixed"`
}
