package identity

import "strings"

// Role is the library console role of an authenticated principal. Roles are
// compared in their normalized (lowercase) form.
type Role string

const (
	RoleAdmin     Role = "admin"     // Full console access
	RoleLibrarian Role = "librarian" // Desk staff: lendings, copies, fines
	RoleMember    Role = "member"    // Library member viewing their own account
)

// Identity is the authenticated principal returned by the library API.
type Identity struct {
	ID          string `json:"id"`          // Server-assigned, opaque
	Email       string `json:"email"`       // Login email
	DisplayName string `json:"displayName"` // Name shown in the console header
	Role        Role   `json:"role"`        // Normalized at login
}

// NormalizeRole case-folds a role as received from the server. Unrecognised
// roles are kept (lowercased) rather than rejected.
func NormalizeRole(role string) Role {
	return Role(strings.ToLower(strings.TrimSpace(role)))
}

// Known reports whether r is one of the recognised console roles.
func (r Role) Known() bool {
	switch r {
	case RoleAdmin, RoleLibrarian, RoleMember:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Normalized returns a copy of the identity with its role case-folded.
func (i Identity) Normalized() Identity {
	i.Role = NormalizeRole(string(i.Role))
	return i
}
