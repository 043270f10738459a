package models

import "errors"

var (
	// ErrInsufficientData is returned when an advisory request has fewer than 3 entries.
	ErrInsufficientData = errors.New("insufficient data for advisory")
	// ErrAdvisoryFailure is the single opaque failure of the advisory service.
	ErrAdvisoryFailure = errors.New("advisory service failure")
	// ErrAdvisoryInFlight is returned when a session already has an outstanding advisory call.
	ErrAdvisoryInFlight = errors.New("advisory request already in flight")
	// ErrAdvisoryRateLimited is returned when a session used up its advisory budget.
	ErrAdvisoryRateLimited = errors.New("advisory rate limit exceeded")
	ErrSessionNotFound     = errors.New("session not found")
	ErrRowOutOfRange       = errors.New("row index out of range")
)
