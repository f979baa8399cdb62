package contextkeys

type contextKey string

const (
	UserIDKey    contextKey = "UserID"
	UserKey      contextKey = "User"
	UserRoleKey  contextKey = "UserRole"
	PartnerIDKey contextKey = "PartnerID"
)
