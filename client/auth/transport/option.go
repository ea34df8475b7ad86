package transport

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/authclient/client/auth/store"
)

type Option func(*RoundTripper)

// WithStore sets credential store
func WithStore(store store.Store) Option {
	return func(t *RoundTripper) {
		t.store = store
	}
}

// WithRefresher sets the service exchanging a refresh token for new credentials
func WithRefresher(refresher Refresher) Option {
	return func(t *RoundTripper) {
		t.refresher = refresher
	}
}

// WithTransport sets the underlying transport
func WithTransport(transport http.RoundTripper) Option {
	return func(t *RoundTripper) {
		t.transport = transport
	}
}

// WithRefreshTimeout bounds a single refresh call; a timeout is a refresh failure
func WithRefreshTimeout(timeout time.Duration) Option {
	return func(t *RoundTripper) {
		if timeout > 0 {
			t.refreshTimeout = timeout
		}
	}
}

// WithSessionExpired sets the callback fired once per irrecoverable refresh failure
func WithSessionExpired(fn SessionExpiredFunc) Option {
	return func(t *RoundTripper) {
		t.onSessionExpired = fn
	}
}

// WithLogger sets logger
func WithLogger(logger zerolog.Logger) Option {
	return func(t *RoundTripper) {
		t.logger = logger
	}
}
