package store

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

// ErrNoToken is returned by a TokenSource when no access token is stored.
var ErrNoToken = errors.New("no access token stored")

// TokenPair represents the credentials issued by the login and refresh endpoints.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// Token returns the pair as a bearer oauth2 token.
func (p *TokenPair) Token() *oauth2.Token {
	return &oauth2.Token{
		TokenType:    "Bearer",
		AccessToken:  p.Access,
		RefreshToken: p.Refresh,
	}
}

// LoadTokenPair reads both entries; absent entries are left empty.
func LoadTokenPair(ctx context.Context, s Store) (*TokenPair, error) {
	access, _, err := s.Get(ctx, AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", AccessToken, err)
	}
	refresh, _, err := s.Get(ctx, RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to read %v: %w", RefreshToken, err)
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// SaveTokenPair writes the access token and, when present, the refresh token.
// An empty refresh token keeps the stored one, mirroring servers that do not rotate.
func SaveTokenPair(ctx context.Context, s Store, pair *TokenPair) error {
	if err := s.Set(ctx, AccessToken, pair.Access); err != nil {
		return fmt.Errorf("failed to write %v: %w", AccessToken, err)
	}
	if pair.Refresh == "" {
		return nil
	}
	if err := s.Set(ctx, RefreshToken, pair.Refresh); err != nil {
		return fmt.Errorf("failed to write %v: %w", RefreshToken, err)
	}
	return nil
}

type tokenSource struct {
	ctx   context.Context
	store Store
}

func (t *tokenSource) Token() (*oauth2.Token, error) {
	pair, err := LoadTokenPair(t.ctx, t.store)
	if err != nil {
		return nil, err
	}
	if pair.Access == "" {
		return nil, ErrNoToken
	}
	return pair.Token(), nil
}

// TokenSource exposes the stored access token as an oauth2.TokenSource.
// It never refreshes; expiry recovery belongs to the transport.
func TokenSource(ctx context.Context, s Store) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, store: s}
}
