package types

// User role values, ordered from least to most privileged
const (
	RoleGuest      = "GUEST"
	RoleMember     = "MEMBER"
	RoleLeadership = "LEADERSHIP"
	RoleHead       = "HEAD"
	RoleAdmin      = "ADMIN"
	RoleAppAdmin   = "APP_ADMIN"
)

// Valid role values for validation
var ValidRoles = []string{
	RoleGuest, RoleMember, RoleLeadership,
	RoleHead, RoleAdmin, RoleAppAdmin,
}

// RoleRank returns numeric rank for role comparison (higher = more permissions)
func RoleRank(role string) int {
	switch role {
	case RoleAppAdmin:
		return 6
	case RoleAdmin:
		return 5
	case RoleHead:
		return 4
	case RoleLeadership:
		return 3
	case RoleMember:
		return 2
	case RoleGuest:
		return 1
	default:
		return 0
	}
}

// RoleAtLeast checks if role has at least the rank of minRole
func RoleAtLeast(role, minRole string) bool {
	return RoleRank(role) >= RoleRank(minRole)
}

// IsAdmin reports whether the role is admin-tier (admin or app admin)
func IsAdmin(role string) bool {
	return RoleAtLeast(role, RoleAdmin)
}

// IsHead reports whether the role is head-tier or above
func IsHead(role string) bool {
	return RoleAtLeast(role, RoleHead)
}

// IsLeadership reports whether the role is leadership-tier or above
func IsLeadership(role string) bool {
	return RoleAtLeast(role, RoleLeadership)
}

// IsGuest reports whether the role is a guest
func IsGuest(role string) bool {
	return role == RoleGuest
}

func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
