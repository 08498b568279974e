package inventory

import "errors"

var (
	// ErrRecordNotFound indicates the record doesn't exist.
	ErrRecordNotFound = errors.New("inventory record not found")
	// ErrInvalidInput indicates an invalid create request.
	ErrInvalidInput = errors.New("invalid inventory input")
)
