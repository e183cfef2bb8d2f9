package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusFailed    BookingStatus = "failed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
// Pending is the only non-terminal state.
func (s BookingStatus) Terminal() bool {
	return s != BookingStatusPending
}

// CanTransitionTo encodes the booking state machine: pending may become
// confirmed, failed, or cancelled; a confirmed booking may still be
// cancelled; failed and cancelled accept nothing.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	switch target {
	case BookingStatusConfirmed, BookingStatusFailed:
		return s == BookingStatusPending
	case BookingStatusCancelled:
		return s == BookingStatusPending || s == BookingStatusConfirmed
	default:
		return false
	}
}

type Booking struct {
	ID              int
	UserID          string
	ShowtimeID      int
	BookingTime     time.Time
	TotalAmount     decimal.Decimal
	Status          BookingStatus
	PaymentIntentID *string
	TransactionID   *string
	Seats           []BookedSeat
}

// BookedSeat freezes the price charged for one seat at booking time. The
// price never changes afterwards, even when catalog prices do.
type BookedSeat struct {
	ID        int
	BookingID int
	SeatID    int
	Price     decimal.Decimal
}

// BookingDetail is the read model returned to callers: the persisted
// booking joined with its showtime, movie, and theater, plus per-seat
// presentation data.
type BookingDetail struct {
	Booking
	MovieTitle  string
	TheaterName string
	StartTime   time.Time
	EndTime     time.Time
	SeatDetails []BookedSeatDetail
}

type BookedSeatDetail struct {
	SeatID     int
	SeatNumber string
	Type       SeatType
	Price      decimal.Decimal
}

type BookingSummary struct {
	BookingID   int
	MovieTitle  string
	TheaterName string
	StartTime   time.Time
	BookingTime time.Time
	TotalAmount decimal.Decimal
	Status      BookingStatus
}

type BookingRepository interface {
	// Create runs the whole claim-and-reserve algorithm in one
	// transaction: re-checks availability, consumes the caller's own
	// matching locks, freezes seat prices, and persists the booking with
	// its seats. No partial state survives a failure.
	Create(ctx context.Context, userID string, showtimeID int, seatIDs []int) (*Booking, error)

	GetById(ctx context.Context, id int) (*Booking, error)
	GetDetailById(ctx context.Context, id int) (*BookingDetail, error)
	GetSummariesByUserId(ctx context.Context, userID string) ([]BookingSummary, error)

	// SetPaymentIntent records the provider's intent reference on a
	// pending booking. Non-pending bookings return ErrBookingNotPending.
	SetPaymentIntent(ctx context.Context, bookingID int, intentID string) error

	// Confirm moves pending to confirmed and records the settlement
	// reference. Confirming an already confirmed booking with the same
	// reference is a no-op; a different reference returns
	// ErrSettlementMismatch. Failed or cancelled return
	// ErrBookingFinalized.
	Confirm(ctx context.Context, bookingID int, settlementRef string) error

	// Fail moves pending to failed. Booked seats are kept; they stop
	// counting as claims because availability excludes failed bookings.
	Fail(ctx context.Context, bookingID int) error

	// Cancel moves pending or confirmed to cancelled.
	Cancel(ctx context.Context, bookingID int) error
}
