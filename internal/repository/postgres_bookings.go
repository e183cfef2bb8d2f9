package repository

import (
	"context"
	"errors"

	"github.com/cinetick/booking-engine/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PostgresBookingRepository struct {
	db    *pgxpool.Pool
	clock domain.Clock
}

func NewPostgresBookingRepository(db *pgxpool.Pool, clock domain.Clock) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db:    db,
		clock: clock,
	}
}

func (p *PostgresBookingRepository) Create(
	ctx context.Context,
	userID string,
	showtimeID int,
	seatIDs []int) (*domain.Booking, error) {

	var booking domain.Booking

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		now := p.clock.Now()

		showtime, err := lockShowtimeRow(ctx, tx, showtimeID)
		if err != nil {
			return err
		}

		if !showtime.Active {
			return domain.ErrRecordNotFound
		}

		// Consume the caller's own locks on these seats so they don't
		// count against the availability re-check below. Locks held by
		// anyone else still block the booking.
		_, err = tx.Exec(
			ctx,
			`DELETE FROM seat_locks WHERE showtime_id = $1 AND seat_id = ANY($2) AND user_id = $3`,
			showtimeID, seatIDs, userID)

		if err != nil {
			return err
		}

		claimed, err := anySeatClaimed(ctx, tx, showtimeID, seatIDs, now)
		if err != nil {
			return err
		}

		if claimed {
			return domain.ErrSeatsUnavailable
		}

		seatPrices, err := loadSeatPrices(ctx, tx, seatIDs, showtime.BasePrice)
		if err != nil {
			return err
		}

		if len(seatPrices) != len(seatIDs) {
			return domain.ErrRecordNotFound
		}

		total := decimal.Zero
		for _, sp := range seatPrices {
			total = total.Add(sp.price)
		}

		query := `
			INSERT INTO bookings (user_id, showtime_id, booking_time, total_amount, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`

		err = tx.QueryRow(
			ctx,
			query,
			userID,
			showtimeID,
			now,
			total,
			domain.BookingStatusPending).Scan(&booking.ID)

		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(seatPrices))
		for _, sp := range seatPrices {
			rows = append(rows, []any{booking.ID, sp.seatID, sp.price})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"booked_seats"},
			[]string{"booking_id", "seat_id", "price"},
			pgx.CopyFromRows(rows),
		)

		if err != nil {
			return err
		}

		booking.UserID = userID
		booking.ShowtimeID = showtimeID
		booking.BookingTime = now
		booking.TotalAmount = total
		booking.Status = domain.BookingStatusPending

		for _, sp := range seatPrices {
			booking.Seats = append(booking.Seats, domain.BookedSeat{
				BookingID: booking.ID,
				SeatID:    sp.seatID,
				Price:     sp.price,
			})
		}

		return nil
	})

	if err != nil {
		return nil, translateClaimError(err)
	}

	return &booking, nil
}

type seatPrice struct {
	seatID int
	price  decimal.Decimal
}

func loadSeatPrices(
	ctx context.Context,
	tx pgx.Tx,
	seatIDs []int,
	basePrice decimal.Decimal) ([]seatPrice, error) {

	query := `
		SELECT id, price_multiplier
		FROM seats
		WHERE id = ANY($1) AND is_active
		ORDER BY id
	`

	rows, err := tx.Query(ctx, query, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seatPrices := make([]seatPrice, 0, len(seatIDs))

	for rows.Next() {
		var id int
		var multiplier decimal.Decimal

		if err := rows.Scan(&id, &multiplier); err != nil {
			return nil, err
		}

		seatPrices = append(seatPrices, seatPrice{
			seatID: id,
			price:  domain.SeatPrice(basePrice, multiplier),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seatPrices, nil
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	query := `
		SELECT id, user_id, showtime_id, booking_time, total_amount, status,
			payment_intent_id, transaction_id
		FROM bookings
		WHERE id = $1
	`

	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ShowtimeID,
		&booking.BookingTime,
		&booking.TotalAmount,
		&booking.Status,
		&booking.PaymentIntentID,
		&booking.TransactionID,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &booking, nil
}

func (p *PostgresBookingRepository) GetDetailById(ctx context.Context, id int) (*domain.BookingDetail, error) {
	query := `
		SELECT
			b.id,
			b.user_id,
			b.showtime_id,
			b.booking_time,
			b.total_amount,
			b.status,
			b.payment_intent_id,
			b.transaction_id,
			m.title,
			t.name,
			s.start_time,
			s.end_time
		FROM bookings b
		JOIN showtimes s ON b.showtime_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN theaters t ON s.theater_id = t.id
		WHERE b.id = $1
	`

	var detail domain.BookingDetail

	err := p.db.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.UserID,
		&detail.ShowtimeID,
		&detail.BookingTime,
		&detail.TotalAmount,
		&detail.Status,
		&detail.PaymentIntentID,
		&detail.TransactionID,
		&detail.MovieTitle,
		&detail.TheaterName,
		&detail.StartTime,
		&detail.EndTime,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	seats, err := p.retrieveBookedSeats(ctx, id)
	if err != nil {
		return nil, err
	}

	detail.SeatDetails = seats

	return &detail, nil
}

func (p *PostgresBookingRepository) retrieveBookedSeats(
	ctx context.Context,
	bookingID int) ([]domain.BookedSeatDetail, error) {

	query := `
		SELECT bs.seat_id, s.seat_number, s.seat_type, bs.price
		FROM booked_seats bs
		JOIN seats s ON bs.seat_id = s.id
		WHERE bs.booking_id = $1
		ORDER BY bs.seat_id
	`

	rows, err := p.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.BookedSeatDetail, 0)

	for rows.Next() {
		var seat domain.BookedSeatDetail

		err := rows.Scan(&seat.SeatID, &seat.SeatNumber, &seat.Type, &seat.Price)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (p *PostgresBookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userID string) ([]domain.BookingSummary, error) {

	query := `
		SELECT b.id, m.title, t.name, s.start_time, b.booking_time, b.total_amount, b.status
		FROM bookings b
		JOIN showtimes s ON b.showtime_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN theaters t ON s.theater_id = t.id
		WHERE b.user_id = $1
		ORDER BY b.booking_time DESC
	`

	rows, err := p.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)

	for rows.Next() {
		var summary domain.BookingSummary

		err := rows.Scan(
			&summary.BookingID,
			&summary.MovieTitle,
			&summary.TheaterName,
			&summary.StartTime,
			&summary.BookingTime,
			&summary.TotalAmount,
			&summary.Status,
		)

		if err != nil {
			return nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (p *PostgresBookingRepository) SetPaymentIntent(ctx context.Context, bookingID int, intentID string) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		status, _, err := lockBookingRow(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if status != domain.BookingStatusPending {
			return domain.ErrBookingNotPending
		}

		_, err = tx.Exec(
			ctx,
			`UPDATE bookings SET payment_intent_id = $1 WHERE id = $2`,
			intentID, bookingID)

		return err
	})
}

func (p *PostgresBookingRepository) Confirm(ctx context.Context, bookingID int, settlementRef string) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		status, transactionID, err := lockBookingRow(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		switch {
		case status == domain.BookingStatusConfirmed:
			// Duplicate confirmation signals arrive from both the
			// synchronous path and the provider callback; same
			// reference means the settlement was already recorded.
			if transactionID != nil && *transactionID == settlementRef {
				return nil
			}
			return domain.ErrSettlementMismatch

		case !status.CanTransitionTo(domain.BookingStatusConfirmed):
			return domain.ErrBookingFinalized
		}

		_, err = tx.Exec(
			ctx,
			`UPDATE bookings SET status = $1, transaction_id = $2 WHERE id = $3`,
			domain.BookingStatusConfirmed, settlementRef, bookingID)

		return err
	})
}

func (p *PostgresBookingRepository) Fail(ctx context.Context, bookingID int) error {
	return p.transition(ctx, bookingID, domain.BookingStatusFailed)
}

func (p *PostgresBookingRepository) Cancel(ctx context.Context, bookingID int) error {
	return p.transition(ctx, bookingID, domain.BookingStatusCancelled)
}

func (p *PostgresBookingRepository) transition(
	ctx context.Context,
	bookingID int,
	target domain.BookingStatus) error {

	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		status, _, err := lockBookingRow(ctx, tx, bookingID)
		if err != nil {
			return err
		}

		if !status.CanTransitionTo(target) {
			return domain.ErrBookingFinalized
		}

		_, err = tx.Exec(ctx, `UPDATE bookings SET status = $1 WHERE id = $2`, target, bookingID)

		return err
	})
}

func lockBookingRow(
	ctx context.Context,
	tx pgx.Tx,
	bookingID int) (domain.BookingStatus, *string, error) {

	var status domain.BookingStatus
	var transactionID *string

	err := tx.QueryRow(
		ctx,
		`SELECT status, transaction_id FROM bookings WHERE id = $1 FOR UPDATE`,
		bookingID).Scan(&status, &transactionID)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil, domain.ErrRecordNotFound
		}

		return "", nil, err
	}

	return status, transactionID, nil
}
