package store

import (
	"context"

	"github.com/patrickmn/go-cache"
)

const (
	// AccessToken names the short-lived credential presented on each request.
	AccessToken = "access"
	// RefreshToken names the credential used to obtain a new access token.
	RefreshToken = "refresh"
)

// Names lists all entries held by a Store.
var Names = []string{AccessToken, RefreshToken}

// Store is a pluggable persistence layer for session credentials.
// Writes are visible to every subsequent call; backend errors are returned as is.
type Store interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name, value string) error
	Clear(ctx context.Context) error
}

type MemoryStoreOption func(*memoryStore)

// WithTokenPair seeds the memory store with pair.
func WithTokenPair(pair *TokenPair) MemoryStoreOption {
	return func(m *memoryStore) {
		m.entries.Set(AccessToken, pair.Access, cache.NoExpiration)
		if pair.Refresh != "" {
			m.entries.Set(RefreshToken, pair.Refresh, cache.NoExpiration)
		}
	}
}

type memoryStore struct {
	entries *cache.Cache
}

func (m *memoryStore) Get(_ context.Context, name string) (string, bool, error) {
	value, ok := m.entries.Get(name)
	if !ok {
		return "", false, nil
	}
	text, _ := value.(string)
	return text, true, nil
}

func (m *memoryStore) Set(_ context.Context, name, value string) error {
	m.entries.Set(name, value, cache.NoExpiration)
	return nil
}

func (m *memoryStore) Clear(_ context.Context) error {
	m.entries.Flush()
	return nil
}

func NewMemoryStore(options ...MemoryStoreOption) Store {
	ret := &memoryStore{
		entries: cache.New(cache.NoExpiration, 0),
	}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}
