package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jrsteele09/library-session/credstore"
	"github.com/jrsteele09/library-session/identity"
	apperrors "github.com/jrsteele09/library-session/internal/errors"
	"github.com/jrsteele09/library-session/session"
	"github.com/jrsteele09/library-session/sessionclock"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Controller owns the current session. It is the only writer of the
// credential store and the session clock, and keeps the two consistent:
// the clock is armed exactly when a valid session is persisted and held
// in memory.
type Controller struct {
	store           credstore.Store
	clock           *sessionclock.Clock
	policy          session.Policy
	decider         Decider
	decisionTimeout time.Duration
	log             zerolog.Logger

	mu      sync.Mutex
	current *session.Session
	cycle   uint64 // identifies the current arm-cycle; firings from older cycles are dropped
}

// New creates a Controller. Call Hydrate once before use.
func New(store credstore.Store, clock *sessionclock.Clock, options ...Option) (*Controller, error) {
	if store == nil {
		return nil, errors.New("[controller.New] store is required")
	}
	if clock == nil {
		return nil, errors.New("[controller.New] clock is required")
	}

	c := &Controller{
		store:           store,
		clock:           clock,
		policy:          session.DefaultPolicy(),
		decider:         EndSession,
		decisionTimeout: sessionclock.DefaultWarningLead,
		log:             log.Logger,
	}
	for _, opt := range options {
		opt(c)
	}
	if c.decider == nil {
		c.decider = EndSession
	}
	if c.decisionTimeout <= 0 {
		c.decisionTimeout = sessionclock.DefaultWarningLead
	}

	// A renewal must land outside the warning window, otherwise every
	// extension fires the prompt again at once.
	shortest := min(c.policy.MemberShort, c.policy.StaffShort)
	if c.clock.Lead() >= shortest {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidConfig,
			"[controller.New] warning lead %s must be shorter than the shortest extension %s", c.clock.Lead(), shortest)
	}
	return c, nil
}

// Hydrate restores the session persisted by a previous run. Storage
// failures, corrupt entries and expired sessions all end in a clean
// logged-out state and a nil result.
func (c *Controller) Hydrate(ctx context.Context) *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	sess, err := c.store.Load(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("discarding persisted session")
		c.logoutLocked(ctx)
		return nil
	}
	if sess == nil {
		c.clock.Disarm()
		c.current = nil
		c.cycle++
		return nil
	}

	if !sess.Valid(c.clock.Now()) {
		c.log.Info().
			Err(apperrors.ErrExpiredOnHydrate).
			Str("user_id", sess.Identity.ID).
			Time("expires_at", sess.ExpiresAt).
			Msg("persisted session expired, logging out")
		c.logoutLocked(ctx)
		return nil
	}

	c.activateLocked(*sess)
	c.log.Debug().
		Str("user_id", sess.Identity.ID).
		Str("role", sess.Identity.Role.String()).
		Time("expires_at", sess.ExpiresAt).
		Dur("remaining", sess.Remaining(c.clock.Now())).
		Msg("session hydrated")
	return c.snapshotLocked()
}

// Login establishes a new session from a successful authentication,
// replacing any previous one.
func (c *Controller) Login(ctx context.Context, token string, id identity.Identity, rememberMe bool) (session.Session, error) {
	if token == "" || id.ID == "" {
		return session.Session{}, apperrors.Wrapf(apperrors.ErrInvalidSession, "[Login] token and identity id are required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.clock.Disarm()

	id = id.Normalized()
	sess := session.Session{
		Token:      token,
		Identity:   id,
		ExpiresAt:  c.policy.ExpiresAt(c.clock.Now(), id.Role, rememberMe),
		RememberMe: rememberMe,
	}

	if err := c.store.Save(ctx, sess); err != nil {
		c.log.Error().Err(err).Str("user_id", id.ID).Msg("failed to persist session")
		c.logoutLocked(ctx)
		return session.Session{}, apperrors.Wrapf(err, "[Login]")
	}

	c.activateLocked(sess)
	c.log.Info().
		Str("user_id", id.ID).
		Str("role", id.Role.String()).
		Bool("remember_me", rememberMe).
		Time("expires_at", sess.ExpiresAt).
		Msg("session started")
	return sess, nil
}

// Logout ends the session. It is safe to call with no session.
func (c *Controller) Logout(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.logoutLocked(ctx)
}

// Extend sets the expiry to now plus the non-remembered policy duration
// for the session's role. Token and identity are unchanged.
//
// The new expiry is not guaranteed to be later than the old one. Inside
// the warning window it always is, since the lead is shorter than every
// extension duration. An early Extend on a remembered session steps it
// down to the short lifetime, e.g. a member's 3 days become 30 minutes.
// Hosts that only want to lengthen a session should call Extend from the
// renewal prompt or check Remaining first.
func (c *Controller) Extend(ctx context.Context) (session.Session, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.extendLocked(ctx)
}

// CurrentSession returns a copy of the in-memory session, or nil when
// logged out or past expiry.
func (c *Controller) CurrentSession() *session.Session {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil || !c.current.Valid(c.clock.Now()) {
		return nil
	}
	return c.snapshotLocked()
}

func (c *Controller) extendLocked(ctx context.Context) (session.Session, error) {
	if c.current == nil {
		return session.Session{}, apperrors.Wrapf(apperrors.ErrNoActiveSession, "[Extend]")
	}

	now := c.clock.Now()
	if !c.current.Valid(now) {
		c.log.Info().Str("user_id", c.current.Identity.ID).Msg("session expired before extension")
		c.logoutLocked(ctx)
		return session.Session{}, apperrors.Wrapf(apperrors.ErrNoActiveSession, "[Extend]")
	}

	next := *c.current
	next.ExpiresAt = c.policy.ExtendedExpiry(now, next.Identity.Role)

	if err := c.store.SaveExpiry(ctx, next.ExpiresAt); err != nil {
		c.log.Error().Err(err).Str("user_id", next.Identity.ID).Msg("failed to persist extension, logging out")
		c.logoutLocked(ctx)
		return session.Session{}, apperrors.Wrapf(err, "[Extend]")
	}

	c.activateLocked(next)
	c.log.Info().
		Str("user_id", next.Identity.ID).
		Time("expires_at", next.ExpiresAt).
		Msg("session extended")
	return next, nil
}

func (c *Controller) logoutLocked(ctx context.Context) {
	c.clock.Disarm()
	if c.current != nil {
		c.log.Info().Str("user_id", c.current.Identity.ID).Msg("session ended")
	}
	c.current = nil
	c.cycle++

	if err := c.store.Clear(ctx); err != nil {
		c.log.Warn().Err(err).Msg("failed to clear persisted session")
	}
}

// activateLocked makes sess current and arms the clock for a new cycle.
func (c *Controller) activateLocked(sess session.Session) {
	c.current = &sess
	c.cycle++
	cycle := c.cycle
	c.clock.Arm(sess, func(fired session.Session) {
		c.onFire(cycle, fired)
	})
}

func (c *Controller) snapshotLocked() *session.Session {
	if c.current == nil {
		return nil
	}
	s := *c.current
	return &s
}

// onFire runs the renewal protocol: ask the decider, then either extend
// or log out. The decider is called without holding the lock; if the
// session changed meanwhile the answer is dropped.
func (c *Controller) onFire(cycle uint64, sess session.Session) {
	c.mu.Lock()
	stale := cycle != c.cycle
	c.mu.Unlock()
	if stale {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.decisionTimeout)
	decision, err := c.decider.Decide(ctx, sess)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	if cycle != c.cycle {
		c.log.Debug().Str("user_id", sess.Identity.ID).Msg("renewal answer for superseded session dropped")
		return
	}

	if err != nil {
		c.log.Warn().Err(err).Str("user_id", sess.Identity.ID).Msg("renewal prompt failed, ending session")
		c.logoutLocked(context.Background())
		return
	}

	c.log.Debug().Str("user_id", sess.Identity.ID).Stringer("decision", decision).Msg("renewal decision")
	if decision == Renew {
		_, _ = c.extendLocked(context.Background())
		return
	}
	c.logoutLocked(context.Background())
}
