package errors

import (
	"errors"
	"fmt"
)

// Error taxonomy for the gateway. Handlers classify failures with Is
// against these sentinels; each category maps to a fixed client-facing
// status and message, while technical detail stays in the server log.
var (
	// Authentication errors
	ErrAuthentication = errors.New("authentication failed")
	ErrInvalidToken   = errors.New("invalid token")
	ErrNoSession      = errors.New("no session")
	ErrValidation     = errors.New("validation failed")

	// Upstream portal errors
	ErrUpstreamClient      = errors.New("upstream client error")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrRateLimited         = errors.New("rate limited")
	ErrEmptyResponse       = errors.New("empty upstream response")
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
