package contextkeys

type contextKey string

const (
	UserIDKey     contextKey = "UserID"
	UserRoleKey   contextKey = "UserRole"
	ClaimsKey     contextKey = "UserClaims"
	AuthStageKey  contextKey = "AuthStage"
	ResourceIDKey contextKey = "ResourceID"
)
