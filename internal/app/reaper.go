package app

import (
	"context"
	"time"
)

const sweepLeaderKey = "seat_locks:sweep"

// runExpiryReaper deletes expired seat locks on a fixed interval until the
// context is cancelled. Expired rows are already invisible to availability
// checks; the sweep just reclaims them.
func (app *Application) runExpiryReaper(ctx context.Context) {
	ticker := time.NewTicker(app.config.Locks.SweepInterval)
	defer ticker.Stop()

	app.logger.Info("starting seat lock reaper", "interval", app.config.Locks.SweepInterval)

	for {
		select {
		case <-ctx.Done():
			app.logger.Info("stopping seat lock reaper")
			return
		case <-ticker.C:
			app.sweepExpiredLocks(ctx)
		}
	}
}

// sweepExpiredLocks runs one sweep pass. A short-lived Redis key elects a
// single sweeper per interval so multiple instances don't all hit the
// database at once; losing the election is not an error.
func (app *Application) sweepExpiredLocks(ctx context.Context) {
	acquired, err := app.redis.SetNX(ctx, sweepLeaderKey, "1", app.config.Locks.SweepInterval/2).Result()
	if err != nil {
		app.logger.Error("sweep leader election failed", "error", err)
		return
	}

	if !acquired {
		return
	}

	deleted, err := app.seatLockRepo.DeleteExpired(ctx)
	if err != nil {
		app.logger.Error("seat lock sweep failed", "error", err)
		return
	}

	if deleted > 0 {
		app.logger.Info("swept expired seat locks", "count", deleted)
	}
}
