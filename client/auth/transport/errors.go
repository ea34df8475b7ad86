package transport

import "errors"

var (
	// ErrSessionExpired matches every error caused by an irrecoverable refresh failure.
	ErrSessionExpired = errors.New("session expired")
	// ErrRefreshTimeout is the cause when the refresh call exceeds the refresh timeout.
	ErrRefreshTimeout = errors.New("token refresh timed out")
	// ErrEmptyToken is the cause when the refresh call succeeds without an access token.
	ErrEmptyToken = errors.New("token refresh returned no access token")
	// ErrSessionReset is the cause when the session was replaced or logged out mid refresh.
	ErrSessionReset = errors.New("session changed during token refresh")
)

// SessionExpiredError is returned to the refresher and every waiter when a
// refresh fails. Err holds the original failure, e.g. the server error
// returned by the refresh endpoint.
type SessionExpiredError struct {
	Err error
}

func (e *SessionExpiredError) Error() string {
	return ErrSessionExpired.Error() + ": " + e.Err.Error()
}

func (e *SessionExpiredError) Unwrap() error {
	return e.Err
}

func (e *SessionExpiredError) Is(target error) bool {
	return target == ErrSessionExpired
}
