package domain

import (
	"context"
	"time"
)

// SeatLock is a time-bounded hold on one seat for one showtime. It exists
// only between creation and release, expiry, or consumption into a booking.
type SeatLock struct {
	ID         int
	ShowtimeID int
	SeatID     int
	UserID     string
	LockTime   time.Time
	ExpiryTime time.Time
}

// SeatLockRepository arbitrates seat claims. Every method that decides
// whether a claim is allowed and then creates it must do both inside a
// single transaction, so two concurrent claims on overlapping seats cannot
// both observe "available" and both commit.
type SeatLockRepository interface {
	// LockSeats claims every requested seat for the user, all or nothing.
	// Returns ErrSeatsUnavailable when any seat has a live claim,
	// ErrRecordNotFound when the showtime or a seat does not exist.
	LockSeats(ctx context.Context, showtimeID int, seatIDs []int, userID string, ttl time.Duration) error

	// UnlockSeats removes only locks owned by the user. Returns
	// ErrNoLocksHeld when nothing matched; that is a distinct negative
	// outcome, not a failure of the store.
	UnlockSeats(ctx context.Context, showtimeID int, seatIDs []int, userID string) error

	// ExtendLocks pushes the expiry of every matching unexpired lock to
	// now+ttl. Partial ownership returns ErrLocksNotHeld with no mutation.
	ExtendLocks(ctx context.Context, showtimeID int, seatIDs []int, userID string, ttl time.Duration) error

	// AreSeatsAvailable reports whether every seat is free of live claims
	// at the instant of the check. A positive answer is not a reservation.
	AreSeatsAvailable(ctx context.Context, showtimeID int, seatIDs []int) (bool, error)

	// DeleteExpired removes every lock whose expiry time has passed and
	// returns the number of locks reclaimed.
	DeleteExpired(ctx context.Context) (int64, error)
}
