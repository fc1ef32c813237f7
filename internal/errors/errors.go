package errors

import (
	"errors"
	"fmt"
)

// Common error types for the session lifecycle manager
var (
	// Persistence errors. These never escape the controller as a logged-in state;
	// they are absorbed and normalized to "no session".
	ErrStorageUnavailable      = errors.New("storage unavailable")
	ErrMalformedPersistedState = errors.New("malformed persisted session state")

	// Session errors
	ErrNoActiveSession  = errors.New("no active session")
	ErrInvalidSession   = errors.New("invalid session")
	ErrExpiredOnHydrate = errors.New("session expired before hydrate")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")

	// Authentication service errors
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrAuthServiceUnavailable = errors.New("authentication service unavailable")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}
