package tokenstore

import (
	"context"
	"errors"

	"github.com/bradfitz/gomemcache/memcache"
)

// MemcachedStore reads the token from a single memcached item.
type MemcachedStore struct {
	key        string
	connection *memcache.Client
}

func NewMemcachedStore(opts Options) *MemcachedStore {
	return &MemcachedStore{
		key:        namespacedKey(opts.Prefix, opts.Key),
		connection: memcache.New(opts.MemcachedAddr),
	}
}

func (s *MemcachedStore) Token(context.Context) (string, error) {
	i, err := s.connection.Get(s.key)
	// cache miss is memcached's way of saying the key is not there.
	if errors.Is(err, memcache.ErrCacheMiss) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(i.Value), nil
}

func (s *MemcachedStore) SetToken(_ context.Context, token string) error {
	return s.connection.Set(&memcache.Item{
		Key:        s.key,
		Value:      []byte(token),
		Expiration: 0,
	})
}

func (s *MemcachedStore) Ping(context.Context) error {
	return s.connection.Ping()
}

func (s *MemcachedStore) Close() error { return nil }
