package listing

import "errors"

var (
	ErrNotFound         = errors.New("listing not found")
	ErrNotOwner         = errors.New("listing belongs to another provider")
	ErrInvalidHours     = errors.New("availability hours are invalid")
	ErrUnsupportedPhoto = errors.New("unsupported photo type")
	ErrInvalidPhoto     = errors.New("file is not a valid image")
)
