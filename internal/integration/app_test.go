package integration_test

import (
	"log/slog"
	"os"
	"time"

	"github.com/cinetick/booking-engine/internal/app"
	"github.com/cinetick/booking-engine/internal/mocks"
	"github.com/cinetick/booking-engine/internal/payment"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TestApp struct {
	App             *app.Application
	DB              *pgxpool.Pool
	Clock           *mocks.MockClock
	PaymentProvider *payment.MockPaymentProvider
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	clock := mocks.NewMockClock(time.Now().UTC())
	paymentProvider := &payment.MockPaymentProvider{}

	application := app.NewApplication(cfg, logger, db, redisClient, clock, paymentProvider)

	return &TestApp{
		App:             application,
		DB:              db,
		Clock:           clock,
		PaymentProvider: paymentProvider,
	}, nil
}
