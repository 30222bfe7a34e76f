package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoleRankOrdering(t *testing.T) {
	ordered := []string{RoleGuest, RoleMember, RoleLeadership, RoleHead, RoleAdmin, RoleAppAdmin}
	for i := 1; i < len(ordered); i++ {
		require.Greater(t, RoleRank(ordered[i]), RoleRank(ordered[i-1]),
			"%s should outrank %s", ordered[i], ordered[i-1])
	}
	require.Equal(t, 0, RoleRank("NOT_A_ROLE"))
}

func TestRoleTiers(t *testing.T) {
	require.True(t, IsAdmin(RoleAppAdmin))
	require.True(t, IsAdmin(RoleAdmin))
	require.False(t, IsAdmin(RoleHead))

	require.True(t, IsHead(RoleAdmin))
	require.True(t, IsHead(RoleHead))
	require.False(t, IsHead(RoleLeadership))

	require.True(t, IsLeadership(RoleHead))
	require.True(t, IsLeadership(RoleLeadership))
	require.False(t, IsLeadership(RoleMember))

	require.True(t, IsGuest(RoleGuest))
	require.False(t, IsGuest(RoleMember))
}

func TestIsValidRole(t *testing.T) {
	for _, role := range ValidRoles {
		require.True(t, IsValidRole(role))
	}
	require.False(t, IsValidRole("SUPER_ADMIN"))
	require.False(t, IsValidRole(""))
	require.False(t, IsValidRole("admin"))
}
