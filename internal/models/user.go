// internal/models/user.go
package models

// Role is a user's role in the company.
type Role string

const (
	RolePresident Role = "president"
	RoleSales     Role = "sales"
	RoleClerical  Role = "clerical"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RolePresident, RoleSales, RoleClerical:
		return true
	}
	return false
}

// RoleRank returns the display ordering for a role. Lower sorts first.
// Every place that orders users by role goes through this function.
func RoleRank(r Role) int {
	switch r {
	case RolePresident:
		return 0
	case RoleSales:
		return 1
	case RoleClerical:
		return 2
	}
	return 3
}

// User is a portal account. IDs are stable and manually assigned by an admin.
type User struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Role      Role   `json:"role"`
	IsTrainee bool   `json:"isTrainee"`
	IsActive  bool   `json:"isActive"`
}
