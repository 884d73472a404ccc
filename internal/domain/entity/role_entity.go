package entity

// Role is the capability level a route requires or a caller holds.
type Role string

const (
	RolePublic Role = "public"
	RoleUser   Role = "user"
	RoleAdmin  Role = "admin"
)

// Allows reports whether a caller holding r may use a route that requires need.
func (r Role) Allows(need Role) bool {
	switch need {
	case RolePublic:
		return true
	case RoleUser:
		return r == RoleUser || r == RoleAdmin
	case RoleAdmin:
		return r == RoleAdmin
	default:
		return false
	}
}
