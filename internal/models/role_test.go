package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allRoles = []Role{RoleViewer, RoleMember, RoleAdmin, RoleOwner}

func TestRoleOrder(t *testing.T) {
	for i := 1; i < len(allRoles); i++ {
		assert.Greater(t, allRoles[i].Rank(), allRoles[i-1].Rank(), "%s must outrank %s", allRoles[i], allRoles[i-1])
	}
}

func TestRoleSatisfies(t *testing.T) {
	for i, actual := range allRoles {
		for j, required := range allRoles {
			assert.Equal(t, i >= j, actual.Satisfies(required), "%s satisfies %s", actual, required)
		}
	}
}

func TestRoleSatisfiesIsMonotonic(t *testing.T) {
	for _, r := range allRoles {
		if r.Satisfies(RoleOwner) {
			assert.True(t, r.Satisfies(RoleViewer))
		}
	}
}

func TestUnknownRolePanics(t *testing.T) {
	assert.Panics(t, func() { Role("superuser").Rank() })
	assert.Panics(t, func() { RoleOwner.Satisfies(Role("")) })
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("Admin")
	require.Error(t, err)
	assert.False(t, Role("").Valid())
}
