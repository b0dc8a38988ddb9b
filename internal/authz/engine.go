package authz

import "car-rental/pkg/constants"

// Stage tracks how far a request got through the authorization chain.
type Stage string

const (
	StageUnauthenticated  Stage = "UNAUTHENTICATED"
	StageTokenVerified    Stage = "TOKEN_VERIFIED"
	StageRoleChecked      Stage = "ROLE_CHECKED"
	StageOwnershipChecked Stage = "OWNERSHIP_CHECKED"
	StageAuthorized       Stage = "AUTHORIZED"
	StageRejected         Stage = "REJECTED"
)

var nextStage = map[Stage]Stage{
	StageUnauthenticated:  StageTokenVerified,
	StageTokenVerified:    StageRoleChecked,
	StageRoleChecked:      StageOwnershipChecked,
	StageOwnershipChecked: StageAuthorized,
}

// Advance returns the stage following s. Rejected and Authorized are terminal.
func (s Stage) Advance() Stage {
	if next, ok := nextStage[s]; ok {
		return next
	}
	return s
}

func (s Stage) Terminal() bool {
	return s == StageRejected || s == StageAuthorized
}

// Actor is the verified caller as seen by the gates.
type Actor struct {
	ID   string
	Role constants.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == constants.RoleAdmin
}
