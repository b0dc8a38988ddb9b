package constants

//============== ROLES ==============

// Role is the user role stored on the account and copied into session claims.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

var AllRoles = []Role{RoleAdmin, RoleUser}

func (r Role) String() string {
	return string(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser:
		return true
	}
	return false
}

//============== RENT STATUSES ==============

// RentStatus is persisted as a small integer.
type RentStatus int

const (
	RentStatusActive    RentStatus = 1
	RentStatusReturned  RentStatus = 2
	RentStatusCancelled RentStatus = 3
)

func (s RentStatus) Valid() bool {
	return s >= RentStatusActive && s <= RentStatusCancelled
}

func (s RentStatus) String() string {
	switch s {
	case RentStatusActive:
		return "active"
	case RentStatusReturned:
		return "returned"
	case RentStatusCancelled:
		return "cancelled"
	}
	return "unknown"
}

//============== CARS ==============

const (
	TransmissionManual    = "manual"
	TransmissionAutomatic = "automatic"
)

//============== UPLOAD CONTEXTS ==============

// UploadContext selects the upload rules in config.UploadContexts.
type UploadContext string

const (
	UploadContextCarPicture UploadContext = "car_picture"
)

func (uc UploadContext) String() string {
	return string(uc)
}

//============== COOKIES ==============

const RefreshTokenCookie = "refreshToken"
