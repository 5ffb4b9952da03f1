package rbac

// Role is a named privilege level held by a workspace member.
type Role string

// Workspace roles, ordered from highest to lowest privilege.
const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
	RoleViewer  Role = "viewer"
)

// hierarchy lists roles from lowest to highest privilege. Index order is the
// only thing IsAtLeast consults; permission grants live in the table instead.
var hierarchy = []Role{RoleViewer, RoleMember, RoleManager, RoleAdmin, RoleOwner}

// IsValid reports whether the role is one of the known workspace roles.
func IsValid(role Role) bool {
	return rank(role) >= 0
}

// IsAtLeast reports whether role ranks at or above target in the fixed
// hierarchy. Unknown roles never satisfy the comparison, in either position.
func IsAtLeast(role, target Role) bool {
	r, t := rank(role), rank(target)
	if r < 0 || t < 0 {
		return false
	}
	return r >= t
}

// Roles returns the known roles ordered from lowest to highest privilege.
func Roles() []Role {
	out := make([]Role, len(hierarchy))
	copy(out, hierarchy)
	return out
}

func rank(role Role) int {
	for i, r := range hierarchy {
		if r == role {
			return i
		}
	}
	return -1
}
