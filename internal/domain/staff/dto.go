package staff

import (
	"nerdsociety/internal/domain/auth"
	"nerdsociety/internal/domain/nerdcoin"
)

type CreateRequest struct {
	Email    string    `json:"email" binding:"required,email"`
	Password string    `json:"password" binding:"required,min=8"`
	Name     string    `json:"name" binding:"required,max=255"`
	Phone    string    `json:"phone" binding:"omitempty,max=32"`
	Role     auth.Role `json:"role" binding:"required"`
}

type UpdateRequest struct {
	Name     *string    `json:"name" binding:"omitempty,min=1,max=255"`
	Phone    *string    `json:"phone" binding:"omitempty,max=32"`
	Role     *auth.Role `json:"role"`
	IsActive *bool      `json:"is_active"`
	Password *string    `json:"password" binding:"omitempty,min=8"`
}

type Member struct {
	auth.User
	Permissions []auth.Permission `json:"permissions"`
}

type Customer struct {
	auth.User
	Tier nerdcoin.Tier `json:"tier"`
}
