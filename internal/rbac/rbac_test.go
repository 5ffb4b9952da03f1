package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsAtLeastReflexive(t *testing.T) {
	for _, role := range Roles() {
		require.True(t, IsAtLeast(role, role), "role %s should satisfy itself", role)
	}
}

func TestIsAtLeastOrdering(t *testing.T) {
	ordered := Roles() // lowest to highest
	for i, lower := range ordered {
		for j, higher := range ordered {
			got := IsAtLeast(lower, higher)
			require.Equal(t, i >= j, got, "IsAtLeast(%s, %s)", lower, higher)
		}
	}
}

func TestIsAtLeastUnknownRoles(t *testing.T) {
	require.False(t, IsAtLeast(Role("superuser"), RoleViewer))
	require.False(t, IsAtLeast(RoleOwner, Role("superuser")))
	require.False(t, IsAtLeast(Role(""), Role("")))
	require.False(t, IsAtLeast(Role("Owner"), RoleViewer)) // case sensitive
}

func TestHasPermissionExhaustive(t *testing.T) {
	for _, action := range Actions() {
		allowed := make(map[Role]bool)
		for _, role := range AllowedRoles(action) {
			allowed[role] = true
		}
		for _, role := range Roles() {
			require.Equal(t, allowed[role], HasPermission(role, action),
				"HasPermission(%s, %s)", role, action)
		}
	}
}

func TestHasPermissionUnknownActionDenied(t *testing.T) {
	for _, role := range Roles() {
		require.False(t, HasPermission(role, Action("workspace:transmogrify")))
	}
}

func TestHasPermissionUnknownRoleDenied(t *testing.T) {
	for _, action := range Actions() {
		require.False(t, HasPermission(Role("superuser"), action))
	}
}

func TestHasPermissionIsExactNotHierarchical(t *testing.T) {
	// workspace:invite stops at manager: member outranks viewer but is still denied.
	require.True(t, HasPermission(RoleManager, ActionWorkspaceInvite))
	require.False(t, HasPermission(RoleMember, ActionWorkspaceInvite))

	// workspace:delete is owner-only even though admin sits directly below.
	require.True(t, HasPermission(RoleOwner, ActionWorkspaceDelete))
	require.False(t, HasPermission(RoleAdmin, ActionWorkspaceDelete))

	// task:create reaches below admin by design.
	require.True(t, HasPermission(RoleMember, ActionTaskCreate))
	require.False(t, HasPermission(RoleViewer, ActionTaskCreate))
}

func TestIsValid(t *testing.T) {
	for _, role := range Roles() {
		require.True(t, IsValid(role))
	}
	require.False(t, IsValid(Role("root")))
	require.False(t, IsValid(Role("")))
}
