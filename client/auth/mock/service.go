package mock

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/viant/authclient/internal/collection"
)

const (
	defaultIssuer     = "authclient-mock"
	defaultAccessTTL  = 5 * time.Minute
	defaultRefreshTTL = 24 * time.Hour
)

// Service is an in-memory remote API issuing JWT sessions.
type Service struct {
	PrivateKey *rsa.PrivateKey
	Issuer     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Optional endpoint overrides
	LoginHandler   http.HandlerFunc
	RefreshHandler http.HandlerFunc

	users        *collection.SyncMap[int, *account]
	tokens       *collection.SyncMap[string, *issued]
	resets       *collection.SyncMap[string, *Reset]
	bookmarks    *collection.SyncMap[int, *Bookmark]
	tags         *collection.SyncMap[string, Tag]
	userSeq      atomic.Int64
	bookmarkSeq  atomic.Int64
	tagSeq       atomic.Int64
	refreshCalls atomic.Int64
	handler      http.Handler
	once         sync.Once
}

type Option func(*Service)

// WithIssuer sets the token issuer claim
func WithIssuer(issuer string) Option {
	return func(s *Service) {
		s.Issuer = issuer
	}
}

// WithTokenTTL sets access and refresh token lifetimes
func WithTokenTTL(access, refresh time.Duration) Option {
	return func(s *Service) {
		s.AccessTTL = access
		s.RefreshTTL = refresh
	}
}

// New creates a mock service with a fresh RSA signing key.
func New(opts ...Option) (*Service, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate signing key: %w", err)
	}
	ret := &Service{
		PrivateKey: privateKey,
		Issuer:     defaultIssuer,
		AccessTTL:  defaultAccessTTL,
		RefreshTTL: defaultRefreshTTL,
		users:      collection.NewSyncMap[int, *account](),
		tokens:     collection.NewSyncMap[string, *issued](),
		resets:     collection.NewSyncMap[string, *Reset](),
		bookmarks:  collection.NewSyncMap[int, *Bookmark](),
		tags:       collection.NewSyncMap[string, Tag](),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret, nil
}

// RefreshCalls returns the number of token refresh requests received.
func (s *Service) RefreshCalls() int {
	return int(s.refreshCalls.Load())
}

// ExpireAccessTokens revokes every issued access token; refresh tokens stay valid.
func (s *Service) ExpireAccessTokens() {
	s.tokens.DeleteFunc(func(_ string, token *issued) bool {
		return token.kind == accessTokenType
	})
}

// RevokeSession revokes every token issued to userID.
func (s *Service) RevokeSession(userID int) {
	s.tokens.DeleteFunc(func(_ string, token *issued) bool {
		return token.userID == userID
	})
}
