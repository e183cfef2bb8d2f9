package mocks

import (
	"context"
	"time"
)

type MockSeatLockRepo struct {
	LockSeatsFunc         func(ctx context.Context, showtimeID int, seatIDs []int, userID string, ttl time.Duration) error
	UnlockSeatsFunc       func(ctx context.Context, showtimeID int, seatIDs []int, userID string) error
	ExtendLocksFunc       func(ctx context.Context, showtimeID int, seatIDs []int, userID string, ttl time.Duration) error
	AreSeatsAvailableFunc func(ctx context.Context, showtimeID int, seatIDs []int) (bool, error)
	DeleteExpiredFunc     func(ctx context.Context) (int64, error)
}

func (m *MockSeatLockRepo) LockSeats(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	userID string,
	ttl time.Duration) error {

	return m.LockSeatsFunc(ctx, showtimeID, seatIDs, userID, ttl)
}

func (m *MockSeatLockRepo) UnlockSeats(ctx context.Context, showtimeID int, seatIDs []int, userID string) error {
	return m.UnlockSeatsFunc(ctx, showtimeID, seatIDs, userID)
}

func (m *MockSeatLockRepo) ExtendLocks(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	userID string,
	ttl time.Duration) error {

	return m.ExtendLocksFunc(ctx, showtimeID, seatIDs, userID, ttl)
}

func (m *MockSeatLockRepo) AreSeatsAvailable(ctx context.Context, showtimeID int, seatIDs []int) (bool, error) {
	return m.AreSeatsAvailableFunc(ctx, showtimeID, seatIDs)
}

func (m *MockSeatLockRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return m.DeleteExpiredFunc(ctx)
}
