package dto

import (
	"car-rental/internal/entities"

	"github.com/aarondl/null/v8"
)

type CreateRentDTO struct {
	CarID  string      `json:"car_id" validate:"required,uuid"`
	UserID null.String `json:"user_id" validate:"omitempty,uuid"`
	DateIn null.Time   `json:"date_in"`
}

type ReturnRentDTO struct {
	RentID string `json:"rent_id" validate:"required,uuid"`
}

type UpdateRentDTO struct {
	UserID  null.String  `json:"user_id" validate:"omitempty,uuid"`
	DateIn  null.Time    `json:"date_in"`
	DateOut null.Time    `json:"date_out"`
	Price   null.Float64 `json:"price" validate:"omitempty,gte=0"`
	Status  null.Int     `json:"status" validate:"omitempty,oneof=1 2 3"`
}

type RentDTO struct {
	ID        string   `json:"id"`
	CarID     string   `json:"car_id"`
	UserID    string   `json:"user_id"`
	DateIn    string   `json:"date_in"`
	DateOut   *string  `json:"date_out,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Status    int      `json:"status"`
	StatusTag string   `json:"status_name"`
	CreatedAt string   `json:"created_at,omitempty"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

func RentToDTO(r *entities.Rent) RentDTO {
	out := RentDTO{
		ID:        r.ID,
		CarID:     r.CarID,
		UserID:    r.UserID,
		DateIn:    r.DateIn.Format(DateTimeLayout),
		Price:     r.Price.Ptr(),
		Status:    int(r.Status),
		StatusTag: r.Status.String(),
		CreatedAt: formatTime(r.CreatedAt),
		UpdatedAt: formatTime(r.UpdatedAt),
	}
	if r.DateOut.Valid {
		out.DateOut = new(string)
		*out.DateOut = r.DateOut.Time.Format(DateTimeLayout)
	}
	return out
}
