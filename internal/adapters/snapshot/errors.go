package snapshot

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrNotFound      = errors.New("medal snapshot not found")
	ErrInvalidFormat = errors.New("invalid medal snapshot")
)
