package dto

import "car-rental/pkg/constants"

// UserClaims is what the auth middleware stores in the request context.
type UserClaims struct {
	UserID string
	Name   string
	Role   constants.Role
}

func (c *UserClaims) IsAdmin() bool {
	return c != nil && c.Role == constants.RoleAdmin
}
