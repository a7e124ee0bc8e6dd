package post

import "errors"

var (
	ErrNotFound         = errors.New("post not found")
	ErrInvalidStatus    = errors.New("invalid post status")
	ErrInvalidType      = errors.New("invalid post type")
	ErrEmptySlug        = errors.New("slug is empty")
	ErrSlugTaken        = errors.New("slug already in use")
	ErrEventStartNeeded = errors.New("event posts need an event start")
	ErrInvalidEventEnd  = errors.New("event end must be after event start")
)
