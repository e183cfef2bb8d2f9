package mocks

import (
	"context"

	"github.com/cinetick/booking-engine/internal/domain"
)

type MockBookingRepo struct {
	CreateFunc               func(ctx context.Context, userID string, showtimeID int, seatIDs []int) (*domain.Booking, error)
	GetByIdFunc              func(ctx context.Context, id int) (*domain.Booking, error)
	GetDetailByIdFunc        func(ctx context.Context, id int) (*domain.BookingDetail, error)
	GetSummariesByUserIdFunc func(ctx context.Context, userID string) ([]domain.BookingSummary, error)
	SetPaymentIntentFunc     func(ctx context.Context, bookingID int, intentID string) error
	ConfirmFunc              func(ctx context.Context, bookingID int, settlementRef string) error
	FailFunc                 func(ctx context.Context, bookingID int) error
	CancelFunc               func(ctx context.Context, bookingID int) error
}

func (m *MockBookingRepo) Create(
	ctx context.Context,
	userID string,
	showtimeID int,
	seatIDs []int) (*domain.Booking, error) {

	return m.CreateFunc(ctx, userID, showtimeID, seatIDs)
}

func (m *MockBookingRepo) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockBookingRepo) GetDetailById(ctx context.Context, id int) (*domain.BookingDetail, error) {
	return m.GetDetailByIdFunc(ctx, id)
}

func (m *MockBookingRepo) GetSummariesByUserId(ctx context.Context, userID string) ([]domain.BookingSummary, error) {
	return m.GetSummariesByUserIdFunc(ctx, userID)
}

func (m *MockBookingRepo) SetPaymentIntent(ctx context.Context, bookingID int, intentID string) error {
	return m.SetPaymentIntentFunc(ctx, bookingID, intentID)
}

func (m *MockBookingRepo) Confirm(ctx context.Context, bookingID int, settlementRef string) error {
	return m.ConfirmFunc(ctx, bookingID, settlementRef)
}

func (m *MockBookingRepo) Fail(ctx context.Context, bookingID int) error {
	return m.FailFunc(ctx, bookingID)
}

func (m *MockBookingRepo) Cancel(ctx context.Context, bookingID int) error {
	return m.CancelFunc(ctx, bookingID)
}
