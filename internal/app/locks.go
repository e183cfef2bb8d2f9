package app

import (
	"errors"
	"net/http"
	"time"

	"github.com/cinetick/booking-engine/internal/domain"
)

type seatLockRequest struct {
	UserID  string `json:"userId" validate:"required"`
	SeatIDs []int  `json:"seatIds" validate:"required,min=1,max=10,unique,dive,gt=0"`
}

type seatLockResponse struct {
	ShowtimeID int       `json:"showtimeId"`
	SeatIDs    []int     `json:"seatIds"`
	UserID     string    `json:"userId"`
	ExpiryTime time.Time `json:"expiryTime"`
}

type seatAvailabilityResponse struct {
	ShowtimeID int   `json:"showtimeId"`
	SeatIDs    []int `json:"seatIds"`
	Available  bool  `json:"available"`
}

// LockSeatsHandler places a temporary hold on a batch of seats. The hold
// covers every requested seat or none of them.
func (app *Application) LockSeatsHandler(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req seatLockRequest

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

	err = app.seatLockRepo.LockSeats(r.Context(), showtimeID, req.SeatIDs, req.UserID, app.config.Locks.TTL)
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

	resp := seatLockResponse{
		ShowtimeID: showtimeID,
		SeatIDs:    req.SeatIDs,
		UserID:     req.UserID,
		ExpiryTime: app.clock.Now().Add(app.config.Locks.TTL),
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// UnlockSeatsHandler releases the caller's holds on the given seats. Seats
// the caller does not hold are skipped; holding none of them is an error.
func (app *Application) UnlockSeatsHandler(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req seatLockRequest

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

	err = app.seatLockRepo.UnlockSeats(r.Context(), showtimeID, req.SeatIDs, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoLocksHeld):
			app.notFoundResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExtendLocksHandler resets the expiry on the caller's holds. Every
// requested seat must still be held by the caller, otherwise nothing
// is extended.
func (app *Application) ExtendLocksHandler(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var req seatLockRequest

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

	err = app.seatLockRepo.ExtendLocks(r.Context(), showtimeID, req.SeatIDs, req.UserID, app.config.Locks.TTL)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrLocksNotHeld):
			app.editConflictResponseWithErr(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	resp := seatLockResponse{
		ShowtimeID: showtimeID,
		SeatIDs:    req.SeatIDs,
		UserID:     req.UserID,
		ExpiryTime: app.clock.Now().Add(app.config.Locks.TTL),
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// SeatAvailabilityHandler reports whether every seat in the query is free
// to claim right now. The answer is advisory; only locking decides.
func (app *Application) SeatAvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	showtimeID, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	seatIDs, err := readSeatIDsParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	_, err = app.showtimeRepo.GetById(r.Context(), showtimeID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}
		return
	}

	available, err := app.seatLockRepo.AreSeatsAvailable(r.Context(), showtimeID, seatIDs)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := seatAvailabilityResponse{
		ShowtimeID: showtimeID,
		SeatIDs:    seatIDs,
		Available:  available,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
