package sessionclock_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/library-session/identity"
	"github.com/jrsteele09/library-session/session"
	"github.com/jrsteele09/library-session/sessionclock"
	"github.com/jrsteele09/library-session/sessionclock/fakeclock"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func sessionExpiringIn(d time.Duration) session.Session {
	return session.Session{
		Token:     "tok",
		Identity:  identity.Identity{ID: "u-1", Role: identity.RoleAdmin},
		ExpiresAt: start.Add(d),
	}
}

func TestClock_FiresLeadBeforeExpiry(t *testing.T) {
	fc := fakeclock.New(start)
	clock := sessionclock.New(fc, 5*time.Minute)

	var fired atomic.Int32
	var firedAt time.Time
	clock.Arm(sessionExpiringIn(15*time.Minute), func(session.Session) {
		fired.Add(1)
		firedAt = fc.Now()
	})
	require.Equal(t, sessionclock.Armed, clock.State())
	require.Equal(t, 1, fc.Pending())

	fc.Advance(10*time.Minute - time.Millisecond)
	require.Equal(t, int32(0), fired.Load())

	fc.Advance(time.Millisecond)
	require.Equal(t, int32(1), fired.Load())
	require.Equal(t, start.Add(10*time.Minute), firedAt)
	require.Equal(t, sessionclock.Idle, clock.State())

	fc.Advance(time.Hour)
	require.Equal(t, int32(1), fired.Load(), "one firing per arm-cycle")
}

func TestClock_RearmReplacesTimer(t *testing.T) {
	fc := fakeclock.New(start)
	clock := sessionclock.New(fc, 5*time.Minute)

	var first, second atomic.Int32
	clock.Arm(sessionExpiringIn(15*time.Minute), func(session.Session) { first.Add(1) })
	clock.Arm(sessionExpiringIn(30*time.Minute), func(session.Session) { second.Add(1) })
	require.Equal(t, 1, fc.Pending())

	fc.Advance(time.Hour)
	require.Equal(t, int32(0), first.Load())
	require.Equal(t, int32(1), second.Load())
}

func TestClock_DisarmPreventsFiring(t *testing.T) {
	fc := fakeclock.New(start)
	clock := sessionclock.New(fc, 5*time.Minute)

	var fired atomic.Int32
	clock.Arm(sessionExpiringIn(15*time.Minute), func(session.Session) { fired.Add(1) })
	clock.Disarm()
	clock.Disarm()

	require.Equal(t, sessionclock.Idle, clock.State())
	require.Equal(t, 0, fc.Pending())
	fc.Advance(time.Hour)
	require.Equal(t, int32(0), fired.Load())
}

func TestClock_DisarmWhenIdle(t *testing.T) {
	clock := sessionclock.New(fakeclock.New(start), 0)
	clock.Disarm()
	require.Equal(t, sessionclock.Idle, clock.State())
	require.Equal(t, sessionclock.DefaultWarningLead, clock.Lead())
}

func TestClock_InsideWarningWindowFiresImmediately(t *testing.T) {
	fc := fakeclock.New(start)
	clock := sessionclock.New(fc, 5*time.Minute)

	done := make(chan session.Session, 1)
	sess := sessionExpiringIn(2 * time.Minute)
	clock.Arm(sess, func(s session.Session) { done <- s })

	require.Equal(t, 0, fc.Pending(), "no timer is scheduled for a non-positive delay")
	select {
	case got := <-done:
		require.Equal(t, sess, got)
	case <-time.After(time.Second):
		t.Fatal("callback was not dispatched")
	}
	require.Eventually(t, func() bool { return clock.State() == sessionclock.Idle }, time.Second, time.Millisecond)
}

func TestClock_ExpiredSessionFiresImmediately(t *testing.T) {
	clock := sessionclock.New(fakeclock.New(start), 5*time.Minute)

	done := make(chan struct{})
	clock.Arm(sessionExpiringIn(-time.Minute), func(session.Session) { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback was not dispatched")
	}
}

func TestClock_CallbackMayRearm(t *testing.T) {
	fc := fakeclock.New(start)
	clock := sessionclock.New(fc, 5*time.Minute)

	var fired atomic.Int32
	var onFire sessionclock.FireFunc
	onFire = func(s session.Session) {
		fired.Add(1)
		require.Equal(t, sessionclock.Firing, clock.State())
		s.ExpiresAt = fc.Now().Add(15 * time.Minute)
		clock.Arm(s, onFire)
	}
	clock.Arm(sessionExpiringIn(15*time.Minute), onFire)

	fc.Advance(10 * time.Minute)
	require.Equal(t, int32(1), fired.Load())
	require.Equal(t, sessionclock.Armed, clock.State())
	require.Equal(t, 1, fc.Pending())

	fc.Advance(10 * time.Minute)
	require.Equal(t, int32(2), fired.Load())
}

func TestClock_RepeatedArmLeavesOneTimer(t *testing.T) {
	fc := fakeclock.New(start)
	clock := sessionclock.New(fc, 5*time.Minute)

	var fired atomic.Int32
	for i := 1; i <= 20; i++ {
		clock.Arm(sessionExpiringIn(time.Duration(10+i)*time.Minute), func(session.Session) { fired.Add(1) })
		require.Equal(t, 1, fc.Pending())
	}

	fc.Advance(24 * time.Hour)
	require.Equal(t, int32(1), fired.Load())
}

func TestState_String(t *testing.T) {
	require.Equal(t, "idle", sessionclock.Idle.String())
	require.Equal(t, "armed", sessionclock.Armed.String())
	require.Equal(t, "firing", sessionclock.Firing.String())
}
