package service

import "errors"

var (
	// ErrConfigNotFound is shared with the config package so callers can
	// match it on either side of the service boundary.
	ErrConfigNotFound = errors.New("configuration not found")
	ErrInvalidRequest = errors.New("invalid request")
)
