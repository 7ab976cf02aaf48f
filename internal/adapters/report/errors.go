package report

import "errors"

// Error kinds returned by the renderers.
var (
	ErrTemplate = errors.New("report template failed")
	ErrNotes    = errors.New("report notes failed")
	ErrWrite    = errors.New("report write failed")
)
