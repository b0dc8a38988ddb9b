package entities

import (
	"math"
	"time"

	"car-rental/pkg/constants"
	"car-rental/pkg/types"

	"github.com/aarondl/null/v8"
)

type Rent struct {
	ID      string               `json:"id" db:"id"`
	CarID   string               `json:"car_id" db:"car_id"`
	UserID  string               `json:"user_id" db:"user_id"`
	DateIn  time.Time            `json:"date_in" db:"date_in"`
	DateOut null.Time            `json:"date_out" db:"date_out"`
	Price   null.Float64         `json:"price" db:"price"`
	Status  constants.RentStatus `json:"status" db:"status"`

	types.BaseEntity
}

func (r *Rent) IsActive() bool {
	return r.Status == constants.RentStatusActive
}

// ChargeFor bills whole started days, at least one.
func ChargeFor(dateIn, dateOut time.Time, pricePerDay float64) float64 {
	days := math.Ceil(dateOut.Sub(dateIn).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days * pricePerDay
}
