package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/authclient/client/auth/store"
)

// DefaultRefreshTimeout bounds a refresh call unless WithRefreshTimeout is used.
const DefaultRefreshTimeout = 30 * time.Second

// Refresher exchanges a refresh token for new credentials.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*store.TokenPair, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context, refreshToken string) (*store.TokenPair, error)

func (f RefresherFunc) Refresh(ctx context.Context, refreshToken string) (*store.TokenPair, error) {
	return f(ctx, refreshToken)
}

// SessionExpiredFunc is notified when a refresh fails and the session is purged.
type SessionExpiredFunc func(ctx context.Context, err error)

// RoundTripper attaches the stored access token to every request and
// recovers from expiry with at most one in-flight refresh.
type RoundTripper struct {
	store            store.Store
	refresher        Refresher
	transport        http.RoundTripper
	refreshTimeout   time.Duration
	onSessionExpired SessionExpiredFunc
	logger           zerolog.Logger
	state            refreshState
	mux              sync.Mutex
}

func New(options ...Option) (*RoundTripper, error) {
	ret := &RoundTripper{
		transport:      http.DefaultTransport,
		store:          store.NewMemoryStore(),
		refreshTimeout: DefaultRefreshTimeout,
		logger:         zerolog.Nop(),
	}

	for _, opt := range options {
		opt(ret)
	}
	if ret.transport == nil {
		return nil, errors.New("transport was nil")
	}
	if ret.store == nil {
		return nil, errors.New("store was nil")
	}
	return ret, nil
}

func (r *RoundTripper) Store() store.Store {
	return r.store
}

// Client returns an http.Client dispatching through r.
func (r *RoundTripper) Client() *http.Client {
	return &http.Client{Transport: r}
}

// Send dispatches req, transparently retrying once on access token expiry.
func (r *RoundTripper) Send(req *http.Request) (*http.Response, error) {
	return r.RoundTrip(req)
}

func (r *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	pending, err := newPendingRequest(req)
	if err != nil {
		return nil, err
	}
	resp, err := r.dispatch(pending)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized || pending.retried || skipRefresh(pending.ctx) {
		return resp, nil
	}
	return r.recover(pending, resp)
}

// Authenticate replaces the stored session with pair. Entries are overwritten
// in place, so concurrent requests see either the prior or the new access token.
// A pair without a refresh token blanks the stored one.
func (r *RoundTripper) Authenticate(ctx context.Context, pair *store.TokenPair) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.state.generation++
	if err := r.store.Set(ctx, store.AccessToken, pair.Access); err != nil {
		return fmt.Errorf("failed to write %v: %w", store.AccessToken, err)
	}
	if err := r.store.Set(ctx, store.RefreshToken, pair.Refresh); err != nil {
		return fmt.Errorf("failed to write %v: %w", store.RefreshToken, err)
	}
	return nil
}

// Logout purges stored credentials. It does not fire the session-expired callback.
func (r *RoundTripper) Logout(ctx context.Context) error {
	r.mux.Lock()
	defer r.mux.Unlock()
	r.state.generation++
	if err := r.store.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// Authenticated reports whether an access token is stored.
func (r *RoundTripper) Authenticated(ctx context.Context) (bool, error) {
	token, _, err := r.store.Get(ctx, store.AccessToken)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

func (r *RoundTripper) dispatch(pending *pendingRequest) (*http.Response, error) {
	token, _, err := r.store.Get(pending.ctx, store.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}
	return r.transport.RoundTrip(pending.build(token))
}

// replay sends pending a final time; its outcome is returned unchanged.
func (r *RoundTripper) replay(pending *pendingRequest, token string) (*http.Response, error) {
	pending.retried = true
	return r.transport.RoundTrip(pending.build(token))
}

// recover handles a first 401 on pending: it either waits for the refresh in
// flight, replays with a token refreshed meanwhile, or becomes the refresher.
func (r *RoundTripper) recover(pending *pendingRequest, resp *http.Response) (*http.Response, error) {
	ctx := pending.ctx
	r.mux.Lock()
	if r.state.inProgress {
		w := r.state.enqueue(pending.id)
		r.mux.Unlock()
		discard(resp)
		r.logger.Debug().Str("request", pending.id).Msg("waiting for token refresh")
		return r.await(pending, w)
	}
	current, _, err := r.store.Get(ctx, store.AccessToken)
	if err != nil {
		r.mux.Unlock()
		discard(resp)
		return nil, fmt.Errorf("failed to read access token: %w", err)
	}
	if current != "" && current != pending.token {
		r.mux.Unlock()
		discard(resp)
		return r.replay(pending, current)
	}
	refreshToken, _, err := r.store.Get(ctx, store.RefreshToken)
	if err != nil {
		r.mux.Unlock()
		discard(resp)
		return nil, fmt.Errorf("failed to read refresh token: %w", err)
	}
	if refreshToken == "" || r.refresher == nil {
		r.mux.Unlock()
		return resp, nil
	}
	r.state.inProgress = true
	generation := r.state.generation
	r.mux.Unlock()
	discard(resp)

	pending.retried = true
	token, err := r.refresh(pending, refreshToken, generation)
	if err != nil {
		return nil, err
	}
	return r.replay(pending, token)
}

func (r *RoundTripper) await(pending *pendingRequest, w *waiter) (*http.Response, error) {
	select {
	case <-pending.ctx.Done():
		return nil, pending.ctx.Err()
	case result := <-w.result:
		if result.err != nil {
			return nil, result.err
		}
		return r.replay(pending, result.token)
	}
}

type refreshOutcome struct {
	pair *store.TokenPair
	err  error
}

// refresh runs the refresh call detached from the caller's cancellation and
// settles every waiter with its outcome.
func (r *RoundTripper) refresh(pending *pendingRequest, refreshToken string, generation uint64) (string, error) {
	ctx := context.WithoutCancel(pending.ctx)
	refreshCtx, cancel := context.WithTimeout(ctx, r.refreshTimeout)
	defer cancel()

	started := time.Now()
	r.logger.Debug().Str("request", pending.id).Msg("refreshing access token")
	done := make(chan refreshOutcome, 1)
	go func() {
		pair, err := r.refresher.Refresh(refreshCtx, refreshToken)
		done <- refreshOutcome{pair: pair, err: err}
	}()

	var outcome refreshOutcome
	select {
	case outcome = <-done:
	case <-refreshCtx.Done():
		outcome.err = fmt.Errorf("%w after %v", ErrRefreshTimeout, r.refreshTimeout)
	}
	if outcome.err == nil && (outcome.pair == nil || outcome.pair.Access == "") {
		outcome.err = ErrEmptyToken
	}
	token, err := r.settle(ctx, outcome, generation)
	event := r.logger.Debug()
	if err != nil {
		event = r.logger.Warn().Err(err)
	}
	event.Str("request", pending.id).Dur("elapsed", time.Since(started)).Msg("token refresh settled")
	return token, err
}

// settle stores or purges credentials and resolves the queued waiters as one
// critical section, so no request observes the store mid transition.
func (r *RoundTripper) settle(ctx context.Context, outcome refreshOutcome, generation uint64) (string, error) {
	var result refreshResult
	expired := false
	r.mux.Lock()
	switch {
	case r.state.generation != generation:
		result.err = &SessionExpiredError{Err: ErrSessionReset}
	case outcome.err == nil:
		if err := store.SaveTokenPair(ctx, r.store, outcome.pair); err != nil {
			outcome.err = err
			break
		}
		result.token = outcome.pair.Access
	}
	if result.err == nil && outcome.err != nil {
		cause := outcome.err
		if err := r.store.Clear(ctx); err != nil {
			cause = errors.Join(cause, fmt.Errorf("failed to clear credentials: %w", err))
		}
		result.err = &SessionExpiredError{Err: cause}
		expired = true
	}
	waiters := r.state.drain()
	r.mux.Unlock()

	for _, w := range waiters {
		r.logger.Debug().Str("request", w.id).Bool("rejected", result.err != nil).Msg("resuming after token refresh")
		w.result <- result
	}
	if expired && r.onSessionExpired != nil {
		r.onSessionExpired(ctx, result.err)
	}
	return result.token, result.err
}
