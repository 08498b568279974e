package board

import "errors"

var (
	// ErrInvalidInput indicates a missing title or malformed URL.
	ErrInvalidInput = errors.New("invalid board input")
	// ErrInvalidPosition indicates a list position that doesn't exist.
	ErrInvalidPosition = errors.New("invalid list position")
	// ErrPinNotFound indicates the pin was removed before the update.
	ErrPinNotFound = errors.New("pin not found")
)
