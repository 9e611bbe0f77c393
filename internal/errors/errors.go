package errors

import (
	"errors"
	"fmt"
)

// Common error types for the web gateway
var (
	// Configuration errors - fatal at startup, never degrade to insecure defaults
	ErrNoSessionSecret    = errors.New("session secret is not configured")
	ErrSessionSecretShort = errors.New("session secret is too short")
	ErrNoUpstreamURL      = errors.New("upstream API URL is not configured")

	// Session errors
	ErrUnauthorized   = errors.New("unauthorized - no active session")
	ErrSessionExpired = errors.New("session expired")

	// Upstream errors
	ErrUpstreamUnavailable = errors.New("upstream API unavailable")
	ErrRefreshFailed       = errors.New("token refresh failed")

	// Request errors
	ErrInvalidRequest = errors.New("invalid request")
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

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
