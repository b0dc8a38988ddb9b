package entities

import (
	"time"

	"car-rental/pkg/constants"
	"car-rental/pkg/types"

	"github.com/aarondl/null/v8"
)

type User struct {
	ID      string      `json:"id" db:"id"`
	Name    string      `json:"name" db:"name"`
	Surname string      `json:"surname" db:"surname"`
	License null.String `json:"license" db:"license"`
	DOB     null.Time   `json:"dob" db:"dob"`
	Address null.String `json:"address" db:"address"`
	Email   string      `json:"email" db:"email"`
	Phone   null.String `json:"phone" db:"phone"`

	Role     constants.Role `json:"role" db:"role"`
	Password string         `json:"-" db:"password"`

	types.BaseEntity
}

func (u *User) FullName() string {
	if u.Surname == "" {
		return u.Name
	}
	return u.Name + " " + u.Surname
}

func (u *User) Touch(now time.Time) {
	u.UpdatedAt = &now
	if u.CreatedAt == nil {
		u.CreatedAt = &now
	}
}
