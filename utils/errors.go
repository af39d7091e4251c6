// utils/errors.go
package utils

import "errors"

var (
	// ErrInvalidRequest marks user-correctable submission problems.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUpstreamUnavailable marks an unreachable or misconfigured data store.
	ErrUpstreamUnavailable = errors.New("upstream data store unavailable")
	// ErrPersistenceFailure marks a failed append or update call.
	ErrPersistenceFailure = errors.New("persistence failure")
	// ErrNotificationFailure marks a failed confirmation email. Never fatal.
	ErrNotificationFailure = errors.New("notification failure")
)
