package session

import (
	"time"

	"github.com/jrsteele09/library-session/identity"
)

// Session is the bound tuple in force while a user is authenticated.
// It is created by login, mutated only by extension (ExpiresAt) and
// destroyed by logout or expiry.
type Session struct {
	Token      string            // Opaque bearer credential, never inspected
	Identity   identity.Identity // Authenticated principal, role normalized
	ExpiresAt  time.Time         // Absolute expiry, millisecond precision
	RememberMe bool              // Set at login; not persisted
}

// ExpiresAtEpochMs returns the expiry as milliseconds since the Unix epoch,
// the representation used by the persisted entries.
func (s Session) ExpiresAtEpochMs() int64 {
	return s.ExpiresAt.UnixMilli()
}

// Valid reports whether the session is complete and has not expired at now.
func (s Session) Valid(now time.Time) bool {
	return s.Token != "" && s.Identity.ID != "" && s.ExpiresAt.After(now)
}

// Remaining returns how long the session has left at now, never negative.
func (s Session) Remaining(now time.Time) time.Duration {
	if d := s.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// FromEpochMs converts persisted epoch milliseconds back to a time.
func FromEpochMs(ms int64) time.Time {
	return time.UnixMilli(ms)
}

// truncateMs drops sub-millisecond precision (and any monotonic reading)
// so an expiry survives the epoch-ms round trip unchanged.
func truncateMs(t time.Time) time.Time {
	return t.Truncate(time.Millisecond)
}
