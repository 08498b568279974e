package luckymon

import "errors"

var (
	// ErrInvalidConfig indicates allocator parameters that can never work.
	ErrInvalidConfig = errors.New("invalid luckymon config")
	// ErrInvalidUser indicates an empty user ID.
	ErrInvalidUser = errors.New("invalid user id")
)
