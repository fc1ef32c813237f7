package identity_test

import (
	"encoding/json"
	"testing"

	"github.com/jrsteele09/library-session/identity"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		in   string
		want identity.Role
	}{
		{"Admin", identity.RoleAdmin},
		{"LIBRARIAN", identity.RoleLibrarian},
		{" member ", identity.RoleMember},
		{"Archivist", identity.Role("archivist")},
		{"", identity.Role("")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, identity.NormalizeRole(tt.in))
		})
	}
}

func TestRole_Known(t *testing.T) {
	require.True(t, identity.RoleAdmin.Known())
	require.True(t, identity.RoleLibrarian.Known())
	require.True(t, identity.RoleMember.Known())
	require.False(t, identity.Role("archivist").Known())
	require.False(t, identity.Role("Admin").Known(), "known roles are matched after normalization only")
}

func TestIdentity_Normalized(t *testing.T) {
	id := identity.Identity{ID: "u-1", Email: "ada@example.com", DisplayName: "Ada", Role: "Member"}

	n := id.Normalized()
	require.Equal(t, identity.RoleMember, n.Role)
	require.Equal(t, identity.Role("Member"), id.Role, "original must not be mutated")
}

func TestIdentity_JSONShape(t *testing.T) {
	id := identity.Identity{ID: "u-1", Email: "ada@example.com", DisplayName: "Ada", Role: identity.RoleAdmin}

	data, err := json.Marshal(id)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"u-1","email":"ada@example.com","displayName":"Ada","role":"admin"}`, string(data))
}
