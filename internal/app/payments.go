package app

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/cinetick/booking-engine/internal/domain"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

type confirmBookingRequest struct {
	SettlementRef string `json:"settlementRef" validate:"required"`
}

type paymentIntentResponse struct {
	BookingID    int    `json:"bookingId"`
	IntentID     string `json:"intentId"`
	ClientSecret string `json:"clientSecret"`
}

// CreatePaymentIntentHandler opens a payment with the provider for a
// pending booking and records the intent reference on the booking.
func (app *Application) CreatePaymentIntentHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	detail, err := app.bookingRepo.GetDetailById(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	if detail.Status != domain.BookingStatusPending {
		app.editConflictResponseWithErr(w, r, domain.ErrBookingNotPending)
		return
	}

	intent, err := app.paymentProvider.CreatePaymentIntent(r.Context(), detail, uuid.NewString())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.bookingRepo.SetPaymentIntent(r.Context(), bookingID, intent.ID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotPending):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := paymentIntentResponse{
		BookingID:    bookingID,
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// ConfirmBookingHandler settles a pending booking. Repeating a confirm
// with the same settlement reference succeeds without effect.
func (app *Application) ConfirmBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req confirmBookingRequest

	err = app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	err = app.bookingRepo.Confirm(r.Context(), bookingID, req.SettlementRef)
	if err != nil {
		app.bookingTransitionError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) FailBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.bookingRepo.Fail(r.Context(), bookingID)
	if err != nil {
		app.bookingTransitionError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.bookingRepo.Cancel(r.Context(), bookingID)
	if err != nil {
		app.bookingTransitionError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (app *Application) bookingTransitionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, domain.ErrBookingFinalized):
		app.editConflictResponseWithErr(w, r, err)
	case errors.Is(err, domain.ErrSettlementMismatch):
		app.unprocessableEntityResponse(w, r, err)
	case errors.Is(err, domain.ErrEditConflict):
		app.transientErrorResponse(w, r)
	default:
		app.serverErrorResponse(w, r, err)
	}
}

// StripeWebhookHandler settles bookings from provider callbacks. Signature
// verification makes the payload trustworthy; the booking ID travels in
// the intent metadata.
func (app *Application) StripeWebhookHandler(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 65536))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), app.config.Stripe.WebhookSecret)
	if err != nil {
		app.badRequestResponse(w, r, errors.New("invalid webhook signature"))
		return
	}

	switch event.Type {
	case stripe.EventTypePaymentIntentSucceeded, stripe.EventTypePaymentIntentPaymentFailed:
		var intent stripe.PaymentIntent

		err = json.Unmarshal(event.Data.Raw, &intent)
		if err != nil {
			app.serverErrorResponse(w, r, err)
			return
		}

		bookingID, err := strconv.Atoi(intent.Metadata["booking_id"])
		if err != nil {
			app.badRequestResponse(w, r, errors.New("missing booking_id metadata"))
			return
		}

		booking, err := app.bookingRepo.GetById(r.Context(), bookingID)
		if err != nil {
			if errors.Is(err, domain.ErrRecordNotFound) {
				app.notFoundResponse(w, r)
				return
			}
			app.serverErrorResponse(w, r, err)
			return
		}

		// The callback must refer to the intent recorded on the booking,
		// otherwise it belongs to a different payment attempt.
		if booking.PaymentIntentID == nil || *booking.PaymentIntentID != intent.ID {
			app.badRequestResponse(w, r, errors.New("payment intent does not match the booking"))
			return
		}

		if event.Type == stripe.EventTypePaymentIntentSucceeded {
			err = app.bookingRepo.Confirm(r.Context(), bookingID, intent.ID)
		} else {
			err = app.bookingRepo.Fail(r.Context(), bookingID)
		}

		if err != nil && !errors.Is(err, domain.ErrBookingFinalized) {
			app.logger.Error("webhook settlement failed", "bookingId", bookingID, "eventType", event.Type, "error", err)
			app.serverErrorResponse(w, r, err)
			return
		}

	default:
		app.logger.Info("unhandled webhook event", "eventType", event.Type)
	}

	w.WriteHeader(http.StatusOK)
}
