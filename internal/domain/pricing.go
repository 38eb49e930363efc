package domain

import (
	"math"
	"time"
)

// TaxRate is the VAT applied on room stays.
const TaxRate = 0.10

type Charges struct {
	Nights int     `json:"nights"`
	Net    float64 `json:"net_amount"`
	Tax    float64 `json:"tax_amount"`
	Total  float64 `json:"total_amount"`
}

// Nights counts whole calendar days between start and end. Never negative.
func Nights(start, end time.Time) int {
	n := int(DateOf(end).Sub(DateOf(start)).Hours() / 24)
	if n < 0 {
		return 0
	}
	return n
}

func RoomCharges(pricePerNight float64, start, end time.Time) Charges {
	nights := Nights(start, end)
	net := roundCents(float64(nights) * pricePerNight)
	tax := roundCents(net * TaxRate)
	return Charges{
		Nights: nights,
		Net:    net,
		Tax:    tax,
		Total:  roundCents(net + tax),
	}
}

func ActivityTotal(price float64, participants int) float64 {
	return roundCents(price * float64(participants))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
