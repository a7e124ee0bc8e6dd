package notification

import "errors"

var (
	ErrUnknownTemplate = errors.New("unknown email template")
	ErrEmptyTemplate   = errors.New("subject and content are required")
)
