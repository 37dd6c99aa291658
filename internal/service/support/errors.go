package support

import "errors"

var (
	// ErrValidation indicates missing or malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates the referenced ticket does not exist.
	ErrNotFound = errors.New("ticket not found")
)
