package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/cinetick/booking-engine/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type createBookingRequest struct {
	UserID     string `json:"userId" validate:"required"`
	ShowtimeID int    `json:"showtimeId" validate:"required,gt=0"`
	SeatIDs    []int  `json:"seatIds" validate:"required,min=1,max=10,unique,dive,gt=0"`
}

type bookedSeatResponse struct {
	SeatID     int             `json:"seatId"`
	SeatNumber string          `json:"seatNumber,omitempty"`
	Type       domain.SeatType `json:"type,omitempty"`
	Price      decimal.Decimal `json:"price"`
}

type bookingResponse struct {
	ID            int                  `json:"id"`
	UserID        string               `json:"userId"`
	ShowtimeID    int                  `json:"showtimeId"`
	MovieTitle    string               `json:"movieTitle,omitempty"`
	TheaterName   string               `json:"theaterName,omitempty"`
	StartTime     *time.Time           `json:"startTime,omitempty"`
	EndTime       *time.Time           `json:"endTime,omitempty"`
	BookingTime   time.Time            `json:"bookingTime"`
	TotalAmount   decimal.Decimal      `json:"totalAmount"`
	Status        domain.BookingStatus `json:"status"`
	TransactionID *string              `json:"transactionId,omitempty"`
	Seats         []bookedSeatResponse `json:"seats"`
}

type bookingSummaryResponse struct {
	BookingID   int                  `json:"bookingId"`
	MovieTitle  string               `json:"movieTitle"`
	TheaterName string               `json:"theaterName"`
	StartTime   time.Time            `json:"startTime"`
	BookingTime time.Time            `json:"bookingTime"`
	TotalAmount decimal.Decimal      `json:"totalAmount"`
	Status      domain.BookingStatus `json:"status"`
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	seats := make([]bookedSeatResponse, 0, len(b.Seats))
	for _, s := range b.Seats {
		seats = append(seats, bookedSeatResponse{SeatID: s.SeatID, Price: s.Price})
	}

	return bookingResponse{
		ID:            b.ID,
		UserID:        b.UserID,
		ShowtimeID:    b.ShowtimeID,
		BookingTime:   b.BookingTime,
		TotalAmount:   b.TotalAmount,
		Status:        b.Status,
		TransactionID: b.TransactionID,
		Seats:         seats,
	}
}

func toBookingDetailResponse(d *domain.BookingDetail) bookingResponse {
	seats := make([]bookedSeatResponse, 0, len(d.SeatDetails))
	for _, s := range d.SeatDetails {
		seats = append(seats, bookedSeatResponse{
			SeatID:     s.SeatID,
			SeatNumber: s.SeatNumber,
			Type:       s.Type,
			Price:      s.Price,
		})
	}

	return bookingResponse{
		ID:            d.ID,
		UserID:        d.UserID,
		ShowtimeID:    d.ShowtimeID,
		MovieTitle:    d.MovieTitle,
		TheaterName:   d.TheaterName,
		StartTime:     &d.StartTime,
		EndTime:       &d.EndTime,
		BookingTime:   d.BookingTime,
		TotalAmount:   d.TotalAmount,
		Status:        d.Status,
		TransactionID: d.TransactionID,
		Seats:         seats,
	}
}

// CreateBookingHandler reserves the requested seats as a single pending
// booking. Either every seat is booked or the request fails with no
// residue.
func (app *Application) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest

	err := app.readJSON(w, r, &req)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(req)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	booking, err := app.bookingRepo.Create(r.Context(), req.UserID, req.ShowtimeID, req.SeatIDs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrSeatsUnavailable):
			app.editConflictResponseWithErr(w, r, err)
		case errors.Is(err, domain.ErrEditConflict):
			app.transientErrorResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toBookingResponse(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
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

	err = app.writeJSON(w, http.StatusOK, toBookingDetailResponse(detail), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookingsHandler(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	if userID == "" {
		app.badRequestResponse(w, r, errors.New("invalid userId parameter"))
		return
	}

	summaries, err := app.bookingRepo.GetSummariesByUserId(r.Context(), userID)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := make([]bookingSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, bookingSummaryResponse{
			BookingID:   s.BookingID,
			MovieTitle:  s.MovieTitle,
			TheaterName: s.TheaterName,
			StartTime:   s.StartTime,
			BookingTime: s.BookingTime,
			TotalAmount: s.TotalAmount,
			Status:      s.Status,
		})
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
