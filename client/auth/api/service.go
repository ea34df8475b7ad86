package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/viant/authclient/client/auth/store"
	"github.com/viant/authclient/client/auth/transport"
)

const (
	RegisterURI       = "auth/register/"
	LoginURI          = "auth/login/"
	RefreshURI        = "auth/token-refresh/"
	ForgotPasswordURI = "auth/forgot-password/"
	ResetPasswordURI  = "auth/reset-password/"
)

// Service issues auth requests against a base URL such as "https://host/api/".
type Service struct {
	baseURL          *url.URL
	httpTransport    http.RoundTripper
	timeout          time.Duration
	transportOptions []transport.Option
	logger           zerolog.Logger

	transport *transport.RoundTripper
	client    *http.Client
	// raw bypasses refresh coordination; it carries the refresh call itself
	raw *http.Client
}

var _ transport.Refresher = (*Service)(nil)

// New creates a Service together with the round tripper dispatching its requests.
func New(baseURL string, options ...Option) (*Service, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %v: %w", baseURL, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base URL %v is not absolute", baseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}
	ret := &Service{
		baseURL:       base,
		httpTransport: http.DefaultTransport,
		logger:        zerolog.Nop(),
	}
	for _, opt := range options {
		opt(ret)
	}

	transportOptions := append([]transport.Option{
		transport.WithTransport(ret.httpTransport),
		transport.WithLogger(ret.logger),
	}, ret.transportOptions...)
	transportOptions = append(transportOptions, transport.WithRefresher(ret))
	if ret.transport, err = transport.New(transportOptions...); err != nil {
		return nil, err
	}
	ret.client = &http.Client{Transport: ret.transport, Timeout: ret.timeout}
	ret.raw = &http.Client{Transport: ret.httpTransport, Timeout: ret.timeout}
	return ret, nil
}

// Transport returns the round tripper owning the session.
func (s *Service) Transport() *transport.RoundTripper {
	return s.transport
}

// Client returns an http.Client sending authenticated requests.
func (s *Service) Client() *http.Client {
	return s.client
}

// Register creates an account. Any prior session is purged before the call.
func (s *Service) Register(ctx context.Context, registration *Registration) (*User, error) {
	if err := s.transport.Logout(ctx); err != nil {
		return nil, err
	}
	user := &User{}
	if err := s.Do(ctx, http.MethodPost, RegisterURI, registration, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login exchanges credentials for a token pair and stores it.
func (s *Service) Login(ctx context.Context, credentials *Credentials) (*store.TokenPair, error) {
	pair := &store.TokenPair{}
	// 401 here means rejected credentials, not an expired session
	if err := s.Do(transport.SkipRefresh(ctx), http.MethodPost, LoginURI, credentials, pair); err != nil {
		return nil, err
	}
	if pair.Access == "" {
		return nil, errors.New("login response has no access token")
	}
	if err := s.transport.Authenticate(ctx, pair); err != nil {
		return nil, err
	}
	s.logger.Debug().Msg("session established")
	return pair, nil
}

// Refresh exchanges refreshToken for new credentials. It does not touch the store.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*store.TokenPair, error) {
	pair := &store.TokenPair{}
	if err := s.do(ctx, s.raw, http.MethodPost, RefreshURI, &refreshRequest{Refresh: refreshToken}, pair); err != nil {
		return nil, err
	}
	return pair, nil
}

// ForgotPassword requests a reset email. Any prior session is purged before the call.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if err := s.transport.Logout(ctx); err != nil {
		return err
	}
	return s.Do(ctx, http.MethodPost, ForgotPasswordURI, &forgotPasswordRequest{Email: email}, nil)
}

// ResetPassword sets a new password using a reset id and token.
func (s *Service) ResetPassword(ctx context.Context, reset *PasswordReset) error {
	return s.Do(transport.SkipRefresh(ctx), http.MethodPost, ResetPasswordURI, reset, nil)
}

// Logout purges the stored session.
func (s *Service) Logout(ctx context.Context) error {
	return s.transport.Logout(ctx)
}

// Do sends request as JSON to uri relative to the base URL through the
// authenticating transport and decodes a 2xx JSON body into response.
func (s *Service) Do(ctx context.Context, method, uri string, request, response interface{}) error {
	return s.do(ctx, s.client, method, uri, request, response)
}

func (s *Service) do(ctx context.Context, client *http.Client, method, uri string, request, response interface{}) error {
	URL, err := s.resolve(uri)
	if err != nil {
		return err
	}
	var body io.Reader
	if request != nil {
		data, err := json.Marshal(request)
		if err != nil {
			return fmt.Errorf("failed to encode %v request: %w", uri, err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, URL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %v response: %w", uri, err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return newError(resp.StatusCode, data)
	}
	if response == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err = json.Unmarshal(data, response); err != nil {
		return fmt.Errorf("failed to decode %v response: %w", uri, err)
	}
	return nil
}

func (s *Service) resolve(uri string) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(uri, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid uri %v: %w", uri, err)
	}
	return s.baseURL.ResolveReference(ref).String(), nil
}
