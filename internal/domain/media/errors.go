package media

import "errors"

var (
	ErrNotFound        = errors.New("media not found")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrInvalidMimeType = errors.New("only images can be uploaded")
	ErrEmptyFile       = errors.New("file is empty")
)
