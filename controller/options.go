package controller

import (
	"time"

	"github.com/jrsteele09/library-session/session"
	"github.com/rs/zerolog"
)

// Option defines a function type to modify the Controller instance.
type Option func(*Controller)

// WithDecider sets the renewal decision provider.
func WithDecider(d Decider) Option {
	return func(c *Controller) {
		c.decider = d
	}
}

// WithPolicy replaces the default expiry policy.
func WithPolicy(p session.Policy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// WithLogger sets the logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// WithDecisionTimeout bounds how long the Decider may take before the
// session is ended.
func WithDecisionTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.decisionTimeout = d
	}
}
