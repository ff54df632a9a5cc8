package service

import "errors"

// Error classes surfaced to controllers. Handlers map these to HTTP statuses;
// anything unwrapped is treated as an internal error.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrForbidden            = errors.New("access denied")
	ErrValidation           = errors.New("validation failed")
	ErrStateConflict        = errors.New("operation conflicts with current state")
	ErrTimeLimitExceeded    = errors.New("time limit exceeded")
	ErrEvaluatorUnavailable = errors.New("evaluator unavailable")
	ErrEmailTaken           = errors.New("email already registered")
	ErrBadCredentials       = errors.New("invalid credentials")
)
