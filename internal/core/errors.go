package core

import "errors"

// Error codes reported to a connection for protocol-level problems.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeRateLimited    = "rate_limited"
)

// ErrHubStopped is returned when submitting to a hub that is no longer running.
var ErrHubStopped = errors.New("hub stopped")
