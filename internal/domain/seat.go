package domain

import (
	"github.com/shopspring/decimal"
)

type SeatType string

const (
	SeatTypeStandard SeatType = "Standard"
	SeatTypePremium  SeatType = "Premium"
	SeatTypeRecliner SeatType = "Recliner"
	SeatTypeCouple   SeatType = "Couple"
)

type Seat struct {
	ID              int
	ScreenID        int
	SeatNumber      string
	Type            SeatType
	PriceMultiplier decimal.Decimal
	Active          bool
}

// SeatPrice is the charge frozen into a booked seat: showtime base price
// times the seat's multiplier, rounded to two fractional digits.
func SeatPrice(basePrice, multiplier decimal.Decimal) decimal.Decimal {
	return basePrice.Mul(multiplier).Round(2)
}
