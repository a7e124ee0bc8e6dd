package auth

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleStaff    Role = "STAFF"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleStaff, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// IsStaff is true for every role that can sign in to the admin console.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleManager || r == RoleAdmin
}

type User struct {
	ID              int64      `gorm:"primaryKey" json:"id"`
	Email           string     `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash    string     `gorm:"size:255;not null" json:"-"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	Phone           string     `gorm:"size:32" json:"phone,omitempty"`
	Role            Role       `gorm:"size:20;not null;index" json:"role"`
	IsActive        bool       `gorm:"not null" json:"is_active"`
	NerdCoinBalance int64      `gorm:"not null;default:0" json:"nerd_coin_balance"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// PasswordResetToken stores only the peppered hash of the emailed token.
type PasswordResetToken struct {
	ID        int64      `gorm:"primaryKey"`
	UserID    int64      `gorm:"not null;index"`
	TokenHash string     `gorm:"size:64;not null;uniqueIndex"`
	ExpiresAt time.Time  `gorm:"not null;index"`
	UsedAt    *time.Time
	CreatedAt time.Time
}

func (PasswordResetToken) TableName() string { return "password_reset_tokens" }
