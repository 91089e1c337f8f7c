package config

import "time"

type SecurityConfig interface {
	GetTokenSecret() string
	GetTokenExpiry() time.Duration
	GetMaxSessionIdle() time.Duration
	GetSweepInterval() time.Duration
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetTokenSecret() string {
	return GetEnv("TOKEN_SECRET", "dev-only-secret-change-me")
}

// Tokens and sessions share the same 24 hour lifetime: an idle session
// dies at the same age its token stops validating.
func (Security) GetTokenExpiry() time.Duration {
	return 24 * time.Hour
}

func (Security) GetMaxSessionIdle() time.Duration {
	return 24 * time.Hour
}

func (Security) GetSweepInterval() time.Duration {
	return time.Hour
}
