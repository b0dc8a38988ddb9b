package dto

import (
	"car-rental/internal/entities"

	"github.com/aarondl/null/v8"
)

type RegisterUserDTO struct {
	Name     string      `json:"name" validate:"required,max=100"`
	Surname  string      `json:"surname" validate:"required,max=100"`
	License  null.String `json:"license" validate:"omitempty,max=50"`
	DOB      null.Time   `json:"dob"`
	Address  null.String `json:"address" validate:"omitempty,max=255"`
	Email    string      `json:"email" validate:"required,email"`
	Phone    null.String `json:"phone" validate:"omitempty,phone"`
	Password string      `json:"password" validate:"required,min=6"`
}

type CreateUserDTO struct {
	RegisterUserDTO
	Role string `json:"role" validate:"required,role"`
}

// UpdateUserDTO is a partial update: invalid (absent) fields are left untouched.
type UpdateUserDTO struct {
	Name     null.String `json:"name" validate:"omitempty,max=100"`
	Surname  null.String `json:"surname" validate:"omitempty,max=100"`
	License  null.String `json:"license" validate:"omitempty,max=50"`
	DOB      null.Time   `json:"dob"`
	Address  null.String `json:"address" validate:"omitempty,max=255"`
	Email    null.String `json:"email" validate:"omitempty,email"`
	Phone    null.String `json:"phone" validate:"omitempty,phone"`
	Password null.String `json:"password" validate:"omitempty,min=6"`
	Role     null.String `json:"role" validate:"omitempty,role"`
}

type UserDTO struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Surname   string  `json:"surname"`
	License   *string `json:"license,omitempty"`
	DOB       *string `json:"dob,omitempty"`
	Address   *string `json:"address,omitempty"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone,omitempty"`
	Role      string  `json:"role"`
	CreatedAt string  `json:"created_at,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

func UserToDTO(u *entities.User) UserDTO {
	out := UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		License:   u.License.Ptr(),
		Address:   u.Address.Ptr(),
		Email:     u.Email,
		Phone:     u.Phone.Ptr(),
		Role:      u.Role.String(),
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
	if u.DOB.Valid {
		dob := u.DOB.Time.Format(DateLayout)
		out.DOB = &dob
	}
	return out
}

func UserToPublicDTO(u *entities.User) UserPublicDTO {
	return UserPublicDTO{
		ID:      u.ID,
		Name:    u.Name,
		Surname: u.Surname,
		Email:   u.Email,
		Role:    u.Role.String(),
	}
}
