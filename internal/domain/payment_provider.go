package domain

import "context"

type PaymentIntent struct {
	ID           string
	ClientSecret string
}

type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, booking *BookingDetail, idempotencyKey string) (*PaymentIntent, error)
}
