package service

import "errors"

// Fatal run errors. Source failures never surface here.
var (
	ErrNoChain = errors.New("no medal source chain configured")
	ErrWeights = errors.New("scoring weights rejected")
	ErrRoster  = errors.New("roster could not be loaded")
	ErrRender  = errors.New("report could not be written")
)
