package controller

import (
	"context"

	"github.com/jrsteele09/library-session/session"
)

// Decision is the user's answer to the renewal prompt.
type Decision int

const (
	End Decision = iota
	Renew
)

func (d Decision) String() string {
	if d == Renew {
		return "renew"
	}
	return "end"
}

// Decider presents the renew-or-end choice when the session clock fires.
// It may be a modal, a notification or an automated policy. Anything other
// than Renew, including an error or ctx expiring, ends the session.
type Decider interface {
	Decide(ctx context.Context, sess session.Session) (Decision, error)
}

// DeciderFunc adapts a function to Decider.
type DeciderFunc func(ctx context.Context, sess session.Session) (Decision, error)

func (f DeciderFunc) Decide(ctx context.Context, sess session.Session) (Decision, error) {
	return f(ctx, sess)
}

// EndSession is the default Decider: sessions are never renewed automatically.
var EndSession Decider = DeciderFunc(func(context.Context, session.Session) (Decision, error) {
	return End, nil
})

// AlwaysRenew renews on every prompt. Useful for kiosk hosts and tests.
var AlwaysRenew Decider = DeciderFunc(func(context.Context, session.Session) (Decision, error) {
	return Renew, nil
})
