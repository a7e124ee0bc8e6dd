package catalog

import "errors"

var (
	ErrLocationNotFound = errors.New("location not found")
	ErrRoomNotFound     = errors.New("room not found")
	ErrComboNotFound    = errors.New("combo not found")

	ErrInvalidClock     = errors.New("invalid clock time")
	ErrInvalidHours     = errors.New("close time must be after open time")
	ErrInvalidRoomType  = errors.New("invalid room type")
	ErrInvalidPriceType = errors.New("invalid price type")
	ErrInvalidPrice     = errors.New("invalid price")

	ErrInactive           = errors.New("catalog item is not active")
	ErrRoomNotInLocation  = errors.New("room does not belong to location")
	ErrComboRoomMismatch  = errors.New("combo does not apply to this room type")
	ErrDurationNotCovered = errors.New("duration exceeds combo coverage")
)
