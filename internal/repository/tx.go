package repository

import (
	"context"
	"errors"
	"time"

	"github.com/cinetick/booking-engine/internal/domain"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// querier is satisfied by both pgx.Tx and *pgxpool.Pool, so the claim
// predicate can run inside a claim-creating transaction or standalone.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func runInTx(ctx context.Context, db *pgxpool.Pool, fn func(tx pgx.Tx) error) error {
	var txOptions pgx.TxOptions

	tx, err := db.BeginTx(ctx, txOptions)
	if err != nil {
		return err
	}

	err = fn(tx)
	if err == nil {
		return tx.Commit(ctx)
	}

	rollbackErr := tx.Rollback(ctx)
	if rollbackErr != nil {
		return errors.Join(err, rollbackErr)
	}

	return err
}

// translateClaimError maps store-level claim collisions onto the domain
// taxonomy. The unique index on live seat locks is the backstop for the
// in-transaction availability check, so a unique violation is an ordinary
// conflict; serialization failures and deadlocks are retryable.
func translateClaimError(err error) error {
	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			return domain.ErrSeatsUnavailable
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			return domain.ErrEditConflict
		}
	}

	return err
}

// lockShowtimeRow serializes all claim decisions for one showtime by
// taking a row lock on it for the duration of the transaction. The lookup
// doubles as the existence check.
func lockShowtimeRow(ctx context.Context, tx pgx.Tx, showtimeID int) (*domain.Showtime, error) {
	query := `
		SELECT id, movie_id, theater_id, start_time, end_time, base_price, is_active
		FROM showtimes
		WHERE id = $1
		FOR UPDATE
	`

	var showtime domain.Showtime

	err := tx.QueryRow(ctx, query, showtimeID).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.TheaterID,
		&showtime.StartTime,
		&showtime.EndTime,
		&showtime.BasePrice,
		&showtime.Active,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &showtime, nil
}

// anySeatClaimed is the single availability predicate shared by locking and
// booking: a seat is claimed when it carries an unexpired lock or belongs
// to a booking that is neither failed nor cancelled.
func anySeatClaimed(ctx context.Context, q querier, showtimeID int, seatIDs []int, now time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM seat_locks
			WHERE showtime_id = $1
				AND seat_id = ANY($2)
				AND expiry_time > $3
		)
		OR EXISTS (
			SELECT 1
			FROM booked_seats bs
			JOIN bookings b ON bs.booking_id = b.id
			WHERE b.showtime_id = $1
				AND bs.seat_id = ANY($2)
				AND b.status NOT IN ('failed', 'cancelled')
		)
	`

	var claimed bool

	err := q.QueryRow(ctx, query, showtimeID, seatIDs, now).Scan(&claimed)
	if err != nil {
		return false, err
	}

	return claimed, nil
}
