package session

import (
	"time"

	"github.com/jrsteele09/library-session/identity"
)

// Policy maps (role, rememberMe) to a session lifetime. Members get the
// longer lifetimes; every other role, including unrecognised ones, gets
// the staff row.
type Policy struct {
	MemberRemembered time.Duration
	MemberShort      time.Duration
	StaffRemembered  time.Duration
	StaffShort       time.Duration
}

// DefaultPolicy is the library console expiry table.
func DefaultPolicy() Policy {
	return Policy{
		MemberRemembered: 3 * 24 * time.Hour,
		MemberShort:      30 * time.Minute,
		StaffRemembered:  3 * time.Hour,
		StaffShort:       15 * time.Minute,
	}
}

// Duration returns the session lifetime for role. role is expected to be
// normalized already.
func (p Policy) Duration(role identity.Role, rememberMe bool) time.Duration {
	if role == identity.RoleMember {
		if rememberMe {
			return p.MemberRemembered
		}
		return p.MemberShort
	}
	if rememberMe {
		return p.StaffRemembered
	}
	return p.StaffShort
}

// ExtensionDuration is the lifetime applied on renewal. It is always the
// non-remembered row so a tab left open cannot keep itself alive on the
// long policy.
func (p Policy) ExtensionDuration(role identity.Role) time.Duration {
	return p.Duration(role, false)
}

// ExpiresAt computes the login expiry for role at now.
func (p Policy) ExpiresAt(now time.Time, role identity.Role, rememberMe bool) time.Time {
	return truncateMs(now.Add(p.Duration(role, rememberMe)))
}

// ExtendedExpiry computes the renewal expiry for role at now.
func (p Policy) ExtendedExpiry(now time.Time, role identity.Role) time.Time {
	return truncateMs(now.Add(p.ExtensionDuration(role)))
}
