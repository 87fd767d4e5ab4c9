package domain

import "strings"

// Role is an account role. Roles form a total order:
// user < moderator < admin < superadmin.
type Role string

const (
	RoleUser       Role = "user"
	RoleModerator  Role = "moderator"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
)

var roleRanks = map[Role]int{
	RoleUser:       0,
	RoleModerator:  1,
	RoleAdmin:      2,
	RoleSuperAdmin: 3,
}

// Rank returns the role's position in the total order. Unknown roles rank
// below user so a corrupt value never grants privileges.
func (r Role) Rank() int {
	if rank, ok := roleRanks[r]; ok {
		return rank
	}
	return -1
}

// AtLeast reports whether r has at least the privileges of other.
func (r Role) AtLeast(other Role) bool {
	return r.Rank() >= other.Rank()
}

// CanModerate reports whether a holder of r may modify an account holding
// target. Only strictly lower ranks may be modified.
func (r Role) CanModerate(target Role) bool {
	return r.Rank() > target.Rank()
}

// ParseRole maps a string onto a known role.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleUser:
		return RoleUser, true
	case RoleModerator:
		return RoleModerator, true
	case RoleAdmin:
		return RoleAdmin, true
	case RoleSuperAdmin:
		return RoleSuperAdmin, true
	default:
		return "", false
	}
}
