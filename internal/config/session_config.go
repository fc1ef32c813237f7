package config

import "time"

type SessionConfig interface {
	GetWarningLead() time.Duration
	GetDecisionTimeout() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

// GetWarningLead is how long before expiry the renewal prompt fires
func (Session) GetWarningLead() time.Duration {
	return GetEnvDuration("SESSION_WARNING_LEAD", 5*time.Minute)
}

// GetDecisionTimeout bounds how long the renewal prompt waits for an answer
// before the session is ended.
func (Session) GetDecisionTimeout() time.Duration {
	return GetEnvDuration("SESSION_DECISION_TIMEOUT", 5*time.Minute)
}
