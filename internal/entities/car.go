package entities

import (
	"car-rental/pkg/types"

	"github.com/aarondl/null/v8"
)

type Car struct {
	ID           string      `json:"id" db:"id"`
	Make         string      `json:"make" db:"make"`
	Model        string      `json:"model" db:"model"`
	Plate        string      `json:"plate" db:"plate"`
	Year         int         `json:"year" db:"year"`
	HP           null.Int    `json:"hp" db:"hp"`
	CC           null.Int    `json:"cc" db:"cc"`
	Colour       string      `json:"colour" db:"colour"`
	Seats        null.Int    `json:"seats" db:"seats"`
	Price        float64     `json:"price" db:"price"`
	Transmission string      `json:"transmission" db:"transmission"`
	Description  null.String `json:"description" db:"description"`
	Picture      null.String `json:"picture" db:"picture"`

	types.BaseEntity
}
