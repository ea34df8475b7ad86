package store

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces credential keys when no prefix is given.
const DefaultRedisPrefix = "authclient"

type redisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a Store keeping each entry under "<prefix>:<name>".
func NewRedisStore(client redis.UniversalClient, prefix string) Store {
	prefix = strings.TrimSuffix(prefix, ":")
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &redisStore{client: client, prefix: prefix}
}

func (r *redisStore) Get(ctx context.Context, name string) (string, bool, error) {
	value, err := r.client.Get(ctx, r.key(name)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (r *redisStore) Set(ctx context.Context, name, value string) error {
	return r.client.Set(ctx, r.key(name), value, 0).Err()
}

func (r *redisStore) Clear(ctx context.Context) error {
	keys := make([]string, 0, len(Names))
	for _, name := range Names {
		keys = append(keys, r.key(name))
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *redisStore) key(name string) string {
	return r.prefix + ":" + name
}
