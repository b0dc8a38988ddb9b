package dto

import (
	"car-rental/internal/entities"

	"github.com/aarondl/null/v8"
)

type CreateCarDTO struct {
	Make         string      `json:"make" validate:"required,max=50"`
	Model        string      `json:"model" validate:"required,max=50"`
	Plate        string      `json:"plate" validate:"required,plate"`
	Year         int         `json:"year" validate:"required,gte=1950,lte=2100"`
	HP           null.Int    `json:"hp" validate:"omitempty,gt=0"`
	CC           null.Int    `json:"cc" validate:"omitempty,gt=0"`
	Colour       string      `json:"colour" validate:"required,max=30"`
	Seats        null.Int    `json:"seats" validate:"omitempty,gte=1,lte=60"`
	Price        float64     `json:"price" validate:"required,gt=0"`
	Transmission string      `json:"transmission" validate:"required,transmission"`
	Description  null.String `json:"description" validate:"omitempty,max=2000"`
}

type UpdateCarDTO struct {
	Make         null.String  `json:"make" validate:"omitempty,max=50"`
	Model        null.String  `json:"model" validate:"omitempty,max=50"`
	Plate        null.String  `json:"plate" validate:"omitempty,plate"`
	Year         null.Int     `json:"year" validate:"omitempty,gte=1950,lte=2100"`
	HP           null.Int     `json:"hp" validate:"omitempty,gt=0"`
	CC           null.Int     `json:"cc" validate:"omitempty,gt=0"`
	Colour       null.String  `json:"colour" validate:"omitempty,max=30"`
	Seats        null.Int     `json:"seats" validate:"omitempty,gte=1,lte=60"`
	Price        null.Float64 `json:"price" validate:"omitempty,gt=0"`
	Transmission null.String  `json:"transmission" validate:"omitempty,transmission"`
	Description  null.String  `json:"description" validate:"omitempty,max=2000"`
}

type CarDTO struct {
	ID           string  `json:"id"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Plate        string  `json:"plate"`
	Year         int     `json:"year"`
	HP           *int    `json:"hp,omitempty"`
	CC           *int    `json:"cc,omitempty"`
	Colour       string  `json:"colour"`
	Seats        *int    `json:"seats,omitempty"`
	Price        float64 `json:"price"`
	Transmission string  `json:"transmission"`
	Description  *string `json:"description,omitempty"`
	Picture      *string `json:"picture,omitempty"`
	CreatedAt    string  `json:"created_at,omitempty"`
	UpdatedAt    string  `json:"updated_at,omitempty"`
}

func CarToDTO(c *entities.Car) CarDTO {
	return CarDTO{
		ID:           c.ID,
		Make:         c.Make,
		Model:        c.Model,
		Plate:        c.Plate,
		Year:         c.Year,
		HP:           c.HP.Ptr(),
		CC:           c.CC.Ptr(),
		Colour:       c.Colour,
		Seats:        c.Seats.Ptr(),
		Price:        c.Price,
		Transmission: c.Transmission,
		Description:  c.Description.Ptr(),
		Picture:      c.Picture.Ptr(),
		CreatedAt:    formatTime(c.CreatedAt),
		UpdatedAt:    formatTime(c.UpdatedAt),
	}
}
