package sessionclock

import (
	"sync"
	"time"

	"github.com/jrsteele09/library-session/session"
)

// DefaultWarningLead is how long before expiry the renewal callback fires.
const DefaultWarningLead = 5 * time.Minute

type State int

const (
	Idle State = iota
	Armed
	Firing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Firing:
		return "firing"
	}
	return "unknown"
}

// FireFunc receives the session the clock was armed against.
type FireFunc func(sess session.Session)

// Clock holds at most one pending renewal-warning timer.
type Clock struct {
	scheduler Scheduler
	lead      time.Duration

	mu    sync.Mutex
	state State
	timer Timer
	gen   uint64 // bumped on every arm, disarm and fire; stale callbacks compare against it
}

// New creates an idle clock. A non-positive lead uses DefaultWarningLead.
func New(scheduler Scheduler, lead time.Duration) *Clock {
	if scheduler == nil {
		scheduler = System()
	}
	if lead <= 0 {
		lead = DefaultWarningLead
	}
	return &Clock{
		scheduler: scheduler,
		lead:      lead,
	}
}

// Now returns the scheduler's current time.
func (c *Clock) Now() time.Time {
	return c.scheduler.Now()
}

// Lead returns the warning lead before expiry.
func (c *Clock) Lead() time.Duration {
	return c.lead
}

// Arm cancels any pending timer and schedules onFire for lead before
// sess.ExpiresAt. When that moment has already passed the callback is
// dispatched straight away on its own goroutine instead of via a timer.
func (c *Clock) Arm(sess session.Session, onFire FireFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.gen++
	gen := c.gen
	c.state = Armed

	delay := sess.Remaining(c.scheduler.Now()) - c.lead
	if delay <= 0 {
		go c.fire(gen, sess, onFire)
		return
	}
	c.timer = c.scheduler.AfterFunc(delay, func() {
		c.fire(gen, sess, onFire)
	})
}

// Disarm cancels the pending timer, if any. A timer already racing to
// fire is discarded.
func (c *Clock) Disarm() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()
	c.gen++
	c.state = Idle
}

// State returns the current clock state.
func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending reports whether a firing is outstanding.
func (c *Clock) Pending() bool {
	return c.State() == Armed
}

func (c *Clock) stopLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Clock) fire(gen uint64, sess session.Session, onFire FireFunc) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.gen++
	firing := c.gen
	c.timer = nil
	c.state = Firing
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		// onFire may have re-armed or disarmed; only settle an untouched clock
		if c.gen == firing {
			c.state = Idle
		}
		c.mu.Unlock()
	}()

	onFire(sess)
}
