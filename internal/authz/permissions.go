package authz

import (
	"strings"

	"car-rental/pkg/constants"
)

// Policy is a named, statically declared set of accepted roles.
// Membership is exact: there is no role hierarchy.
type Policy struct {
	name  string
	roles map[constants.Role]struct{}
}

func NewPolicy(name string, roles ...constants.Role) Policy {
	set := make(map[constants.Role]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return Policy{name: name, roles: set}
}

func (p Policy) Name() string { return p.name }

func (p Policy) Allows(role constants.Role) bool {
	_, ok := p.roles[role]
	return ok
}

func (p Policy) String() string {
	names := make([]string, 0, len(p.roles))
	for _, r := range constants.AllRoles {
		if p.Allows(r) {
			names = append(names, r.String())
		}
	}
	return p.name + "[" + strings.Join(names, ",") + "]"
}

// Route policies.
var (
	AdminOnly = NewPolicy("admin-only", constants.RoleAdmin)
	AnyRole   = NewPolicy("any-role", constants.RoleAdmin, constants.RoleUser)
)
