package payment

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cinetick/booking-engine/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
)

type StripePaymentProvider struct{}

func NewStripePaymentProvider() *StripePaymentProvider {
	return &StripePaymentProvider{}
}

func (s *StripePaymentProvider) CreatePaymentIntent(
	ctx context.Context,
	booking *domain.BookingDetail,
	idempotencyKey string) (*domain.PaymentIntent, error) {

	amountCents := booking.TotalAmount.Mul(decimal.NewFromInt(100)).IntPart()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		Metadata: map[string]string{
			"booking_id":  strconv.Itoa(booking.ID),
			"movie_title": booking.MovieTitle,
			"showtime":    booking.StartTime.Format("Jan 2, 2006 15:04"),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(idempotencyKey)

	intent, err := paymentintent.New(params)
	if err != nil {
		return nil, fmt.Errorf("stripe payment intent creation failed: %w", err)
	}

	return &domain.PaymentIntent{
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
	}, nil
}
