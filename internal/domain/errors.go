package domain

import "errors"

var (
	ErrRecordNotFound     = errors.New("record not found")
	ErrEditConflict       = errors.New("edit conflict, please retry")
	ErrSeatsUnavailable   = errors.New("seat(s) are not available")
	ErrNoLocksHeld        = errors.New("no matching seat locks held")
	ErrLocksNotHeld       = errors.New("unexpired locks are not held on every requested seat")
	ErrBookingFinalized   = errors.New("booking is already in a terminal state")
	ErrBookingNotPending  = errors.New("booking is not in pending state")
	ErrSettlementMismatch = errors.New("settlement reference does not match the recorded one")
)
