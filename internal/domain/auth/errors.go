package auth

import "errors"

var (
	ErrNotFound           = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
	ErrInvalidRole        = errors.New("invalid role")
)
