package store

import "errors"

// Sentinel errors surfaced by the store, ledger, and workflows. All are
// recoverable: the API layer maps them to a rejected action with a
// reason, and none of them leaves a unit's counters inconsistent.
var (
	ErrInvalidCapacity   = errors.New("invalid capacity")
	ErrCapacityExhausted = errors.New("capacity exhausted")
	ErrDuplicatePending  = errors.New("duplicate pending application")
	ErrAlreadyBooked     = errors.New("already booked")
	ErrNotEnrolled       = errors.New("not enrolled in hostel")
	ErrWindowClosed      = errors.New("booking window closed")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotFound          = errors.New("not found")
	ErrAccessDenied      = errors.New("access denied")
	ErrInvalidInput      = errors.New("invalid input")
)
