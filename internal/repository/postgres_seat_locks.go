package repository

import (
	"context"
	"time"

	"github.com/cinetick/booking-engine/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresSeatLockRepository struct {
	db    *pgxpool.Pool
	clock domain.Clock
}

func NewPostgresSeatLockRepository(db *pgxpool.Pool, clock domain.Clock) *PostgresSeatLockRepository {
	return &PostgresSeatLockRepository{
		db:    db,
		clock: clock,
	}
}

func (p *PostgresSeatLockRepository) LockSeats(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	userID string,
	ttl time.Duration) error {

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		now := p.clock.Now()

		showtime, err := lockShowtimeRow(ctx, tx, showtimeID)
		if err != nil {
			return err
		}

		if !showtime.Active {
			return domain.ErrRecordNotFound
		}

		var seatCount int

		err = tx.QueryRow(
			ctx,
			`SELECT COUNT(*) FROM seats WHERE id = ANY($1) AND is_active`,
			seatIDs).Scan(&seatCount)

		if err != nil {
			return err
		}

		if seatCount != len(seatIDs) {
			return domain.ErrRecordNotFound
		}

		claimed, err := anySeatClaimed(ctx, tx, showtimeID, seatIDs, now)
		if err != nil {
			return err
		}

		if claimed {
			return domain.ErrSeatsUnavailable
		}

		// Expired rows the reaper hasn't swept yet would trip the unique
		// index on (showtime_id, seat_id), so clear them first.
		_, err = tx.Exec(
			ctx,
			`DELETE FROM seat_locks WHERE showtime_id = $1 AND seat_id = ANY($2) AND expiry_time <= $3`,
			showtimeID, seatIDs, now)

		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(seatIDs))
		for _, seatID := range seatIDs {
			rows = append(rows, []any{
				showtimeID,
				seatID,
				userID,
				now,
				now.Add(ttl),
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"seat_locks"},
			[]string{"showtime_id", "seat_id", "user_id", "lock_time", "expiry_time"},
			pgx.CopyFromRows(rows),
		)

		return err
	})

	return translateClaimError(err)
}

func (p *PostgresSeatLockRepository) UnlockSeats(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	userID string) error {

	query := `
		DELETE FROM seat_locks
		WHERE showtime_id = $1 AND seat_id = ANY($2) AND user_id = $3
	`

	tag, err := p.db.Exec(ctx, query, showtimeID, seatIDs, userID)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrNoLocksHeld
	}

	return nil
}

func (p *PostgresSeatLockRepository) ExtendLocks(
	ctx context.Context,
	showtimeID int,
	seatIDs []int,
	userID string,
	ttl time.Duration) error {

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		now := p.clock.Now()

		query := `
			UPDATE seat_locks
			SET expiry_time = $1
			WHERE showtime_id = $2
				AND seat_id = ANY($3)
				AND user_id = $4
				AND expiry_time > $5
		`

		tag, err := tx.Exec(ctx, query, now.Add(ttl), showtimeID, seatIDs, userID, now)
		if err != nil {
			return err
		}

		// Rolling back on a partial match undoes any extensions already
		// applied, keeping the operation all-or-nothing.
		if tag.RowsAffected() != int64(len(seatIDs)) {
			return domain.ErrLocksNotHeld
		}

		return nil
	})

	return translateClaimError(err)
}

func (p *PostgresSeatLockRepository) AreSeatsAvailable(
	ctx context.Context,
	showtimeID int,
	seatIDs []int) (bool, error) {

	claimed, err := anySeatClaimed(ctx, p.db, showtimeID, seatIDs, p.clock.Now())
	if err != nil {
		return false, err
	}

	return !claimed, nil
}

func (p *PostgresSeatLockRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := p.db.Exec(ctx, `DELETE FROM seat_locks WHERE expiry_time <= $1`, p.clock.Now())
	if err != nil {
		return 0, err
	}

	return tag.RowsAffected(), nil
}
