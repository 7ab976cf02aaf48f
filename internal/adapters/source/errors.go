package source

import "errors"

// Sentinel kinds for source failures. The chain absorbs all of them.
var (
	ErrNoData    = errors.New("source returned no usable medal data")
	ErrMalformed = errors.New("malformed medal payload")
	ErrStatus    = errors.New("unexpected http status")
)
