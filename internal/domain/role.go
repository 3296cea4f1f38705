package domain

// Role names carried in the bearer token.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
