package attendance

import "errors"

// Business errors surfaced to the caller as-is; none of these are retryable.
var (
	ErrAlreadyCheckedIn = errors.New("already checked in")
	ErrNotCheckedIn     = errors.New("not checked in")
	ErrNotFound         = errors.New("attendance record not found")
	ErrOutsideRadius    = errors.New("coordinates outside the allowed site radius")
)
