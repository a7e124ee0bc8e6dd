package payment

import "errors"

var (
	ErrNotFound          = errors.New("payment not found")
	ErrInvalidMethod     = errors.New("invalid payment method")
	ErrMethodDisabled    = errors.New("payment method is disabled")
	ErrAlreadyCompleted  = errors.New("payment already completed")
	ErrBankNotConfigured = errors.New("bank transfer account is not configured")
)
