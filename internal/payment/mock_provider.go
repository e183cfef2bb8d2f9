package payment

import (
	"context"

	"github.com/cinetick/booking-engine/internal/domain"
)

type MockPaymentProvider struct {
	CreatePaymentIntentFunc func(ctx context.Context, booking *domain.BookingDetail, idempotencyKey string) (*domain.PaymentIntent, error)
}

func (m *MockPaymentProvider) CreatePaymentIntent(
	ctx context.Context,
	booking *domain.BookingDetail,
	idempotencyKey string) (*domain.PaymentIntent, error) {

	if m.CreatePaymentIntentFunc != nil {
		return m.CreatePaymentIntentFunc(ctx, booking, idempotencyKey)
	}

	return &domain.PaymentIntent{ID: "pi_mock", ClientSecret: "pi_mock_secret"}, nil
}
