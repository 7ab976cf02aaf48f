package roster

import "errors"

// ErrInvalidRoster marks a roster that cannot be used at all.
var ErrInvalidRoster = errors.New("invalid roster")
