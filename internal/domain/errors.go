package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrUnknownField     = errors.New("unknown rate field")
	ErrInvalidValue     = errors.New("invalid value")
	ErrInvalidDuration  = errors.New("invalid duration")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrRecalcNotRunning = errors.New("recalculator is not running")
)
