package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/authclient/client/auth/api"
	"github.com/viant/authclient/client/auth/mock"
	"github.com/viant/authclient/client/auth/store"
	"github.com/viant/authclient/client/auth/transport"
)

type fixture struct {
	remote  *mock.Service
	server  *httptest.Server
	store   store.Store
	service *api.Service
	expired atomic.Int32
}

func newFixture(t *testing.T, options ...store.MemoryStoreOption) *fixture {
	t.Helper()
	remote, err := mock.New()
	require.NoError(t, err)
	server := httptest.NewServer(remote)
	t.Cleanup(server.Close)
	ret := &fixture{remote: remote, server: server, store: store.NewMemoryStore(options...)}
	ret.service, err = api.New(server.URL+mock.Prefix, api.WithTransportOptions(
		transport.WithStore(ret.store),
		transport.WithSessionExpired(func(ctx context.Context, err error) {
			ret.expired.Add(1)
		}),
	))
	require.NoError(t, err)
	return ret
}

func (f *fixture) pair(t *testing.T) *store.TokenPair {
	t.Helper()
	pair, err := store.LoadTokenPair(context.Background(), f.store)
	require.NoError(t, err)
	return pair
}

func TestNew(t *testing.T) {
	_, err := api.New("/relative/")
	assert.Error(t, err)
	_, err = api.New("http://[::1")
	assert.Error(t, err)

	service, err := api.New("http://localhost:8000/api")
	require.NoError(t, err)
	assert.NotNil(t, service.Transport())
	assert.NotNil(t, service.Client())
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.remote.AddUser("jo@example.com", "secret")

	_, err := f.service.Login(ctx, &api.Credentials{Email: "jo@example.com", Password: "wrong"})
	require.Error(t, err)
	apiErr := &api.Error{}
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "No active account found with the given credentials", apiErr.Detail)
	assert.Equal(t, 0, f.remote.RefreshCalls(), "rejected credentials never trigger a refresh")

	pair, err := f.service.Login(ctx, &api.Credentials{Email: "jo@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, pair, f.pair(t))
	authenticated, err := f.service.Transport().Authenticated(ctx)
	require.NoError(t, err)
	assert.True(t, authenticated)

	require.NoError(t, f.service.Logout(ctx))
	assert.Equal(t, &store.TokenPair{}, f.pair(t))
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	var testCases = []struct {
		description  string
		registration *api.Registration
		expectField  string
		expectUser   *api.User
	}{
		{
			description:  "account created",
			registration: &api.Registration{Name: "Jo", Email: "jo@example.com", Username: "jo", Password: "pw", ConfirmPassword: "pw"},
			expectUser:   &api.User{ID: 1, Name: "Jo", Email: "jo@example.com", Username: "jo"},
		},
		{
			description:  "password mismatch",
			registration: &api.Registration{Email: "jo@example.com", Password: "pw", ConfirmPassword: "other"},
			expectField:  "conf_password",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			f := newFixture(t, store.WithTokenPair(&store.TokenPair{Access: "A1", Refresh: "R1"}))
			user, err := f.service.Register(ctx, tc.registration)
			assert.Equal(t, &store.TokenPair{}, f.pair(t), "prior session is purged")
			if tc.expectField != "" {
				apiErr := &api.Error{}
				require.True(t, errors.As(err, &apiErr))
				assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
				assert.Equal(t, []string{"Passwords do not match."}, apiErr.Fields[tc.expectField])
				assert.Equal(t, []string{"Passwords do not match."}, apiErr.Messages())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectUser, user)
		})
	}
}

func TestService_PasswordReset(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, store.WithTokenPair(&store.TokenPair{Access: "A1", Refresh: "R1"}))
	f.remote.AddUser("jo@example.com", "old")

	require.NoError(t, f.service.ForgotPassword(ctx, "jo@example.com"))
	assert.Equal(t, &store.TokenPair{}, f.pair(t), "prior session is purged")
	reset, ok := f.remote.Reset("jo@example.com")
	require.True(t, ok)

	err := f.service.ResetPassword(ctx, &api.PasswordReset{ResetID: reset.ID, ResetToken: reset.Token, NewPassword: "new", ConfirmPassword: "other"})
	apiErr := &api.Error{}
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Fields, "conf_pass")

	require.NoError(t, f.service.ResetPassword(ctx, &api.PasswordReset{ResetID: reset.ID, ResetToken: reset.Token, NewPassword: "new", ConfirmPassword: "new"}))
	_, err = f.service.Login(ctx, &api.Credentials{Email: "jo@example.com", Password: "new"})
	require.NoError(t, err)
}

func TestService_Do_Recovery(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.remote.AddUser("jo@example.com", "secret")
	initial, err := f.service.Login(ctx, &api.Credentials{Email: "jo@example.com", Password: "secret"})
	require.NoError(t, err)
	require.NoError(t, f.service.Do(ctx, http.MethodPost, "bookmarks/", map[string]string{"url": "https://go.dev"}, nil))

	f.remote.ExpireAccessTokens()
	const concurrency = 8
	var wg sync.WaitGroup
	results := make([][]map[string]interface{}, concurrency)
	errs := make([]error, concurrency)
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.service.Do(ctx, http.MethodGet, "bookmarks/", nil, &results[i])
		}(i)
	}
	wg.Wait()
	for i := 0; i < concurrency; i++ {
		require.NoError(t, errs[i])
		assert.Len(t, results[i], 1)
	}
	assert.Equal(t, 1, f.remote.RefreshCalls())
	rotated := f.pair(t)
	assert.NotEqual(t, initial.Access, rotated.Access)
	assert.NotEqual(t, initial.Refresh, rotated.Refresh)
	assert.EqualValues(t, 0, f.expired.Load())
}

func TestService_Do_SessionExpired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID := f.remote.AddUser("jo@example.com", "secret")
	_, err := f.service.Login(ctx, &api.Credentials{Email: "jo@example.com", Password: "secret"})
	require.NoError(t, err)

	f.remote.RevokeSession(userID)
	err = f.service.Do(ctx, http.MethodGet, "bookmarks/", nil, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, transport.ErrSessionExpired)
	apiErr := &api.Error{}
	require.True(t, errors.As(err, &apiErr), "original refresh error is preserved")
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "token_not_valid", apiErr.Code)

	assert.Equal(t, &store.TokenPair{}, f.pair(t))
	assert.EqualValues(t, 1, f.expired.Load())
	assert.Equal(t, 1, f.remote.RefreshCalls())
}

func TestService_Do_Unauthenticated(t *testing.T) {
	f := newFixture(t)
	err := f.service.Do(context.Background(), http.MethodGet, "bookmarks/", nil, nil)
	apiErr := &api.Error{}
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "not_authenticated", apiErr.Code)
	assert.Equal(t, 0, f.remote.RefreshCalls())
}

// sessionRecorder captures the session state at the moment a request leaves the client.
type sessionRecorder struct {
	store         store.Store
	next          http.RoundTripper
	mu            sync.Mutex
	authorization map[string]string
	pairs         map[string]*store.TokenPair
}

func (r *sessionRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	pair, err := store.LoadTokenPair(req.Context(), r.store)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.authorization[req.URL.Path] = req.Header.Get("Authorization")
	r.pairs[req.URL.Path] = pair
	r.mu.Unlock()
	return r.next.RoundTrip(req)
}

func TestService_PurgesSessionBeforeSending(t *testing.T) {
	ctx := context.Background()
	remote, err := mock.New()
	require.NoError(t, err)
	server := httptest.NewServer(remote)
	defer server.Close()
	remote.AddUser("jo@example.com", "secret")

	var testCases = []struct {
		description string
		uri         string
		call        func(service *api.Service) error
	}{
		{
			description: "register",
			uri:         api.RegisterURI,
			call: func(service *api.Service) error {
				_, err := service.Register(ctx, &api.Registration{Email: "new@example.com", Password: "pw", ConfirmPassword: "pw"})
				return err
			},
		},
		{
			description: "forgot password",
			uri:         api.ForgotPasswordURI,
			call: func(service *api.Service) error {
				return service.ForgotPassword(ctx, "jo@example.com")
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			aStore := store.NewMemoryStore(store.WithTokenPair(&store.TokenPair{Access: "A1", Refresh: "R1"}))
			recorder := &sessionRecorder{
				store:         aStore,
				next:          http.DefaultTransport,
				authorization: map[string]string{},
				pairs:         map[string]*store.TokenPair{},
			}
			service, err := api.New(server.URL+mock.Prefix,
				api.WithHTTPTransport(recorder),
				api.WithTransportOptions(transport.WithStore(aStore)),
			)
			require.NoError(t, err)
			require.NoError(t, tc.call(service))

			path := mock.Prefix + tc.uri
			require.Contains(t, recorder.pairs, path)
			assert.Empty(t, recorder.authorization[path])
			assert.Equal(t, &store.TokenPair{}, recorder.pairs[path])
			for sent := range recorder.pairs {
				assert.True(t, strings.HasSuffix(sent, tc.uri), "unexpected request %v", sent)
			}
		})
	}
}
