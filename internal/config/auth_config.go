package config

import "time"

type AuthConfig interface {
	GetAuthServiceURL() string
	GetAuthTimeout() time.Duration
	GetDevSigningSecret() string
}

type Auth struct{}

var _ AuthConfig = Auth{}

// GetAuthServiceURL is the base URL of the library API. Empty means the CLI
// falls back to the in-process development authenticator.
func (Auth) GetAuthServiceURL() string {
	return GetEnv("AUTH_SERVICE_URL", "")
}

func (Auth) GetAuthTimeout() time.Duration {
	return GetEnvDuration("AUTH_TIMEOUT", 10*time.Second)
}

func (Auth) GetDevSigningSecret() string {
	return GetEnv("DEV_SIGNING_SECRET", "dev-secret-change-me")
}
