package tokenstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore reads the token from a plain string key.
type RedisStore struct {
	key        string
	connection *redis.Client
}

func NewRedisStore(opts Options) *RedisStore {
	c := redis.NewClient(&redis.Options{
		Addr:     opts.RedisAddr,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})
	return &RedisStore{
		key:        namespacedKey(opts.Prefix, opts.Key),
		connection: c,
	}
}

func (s *RedisStore) Token(ctx context.Context) (string, error) {
	v, err := s.connection.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisStore) SetToken(ctx context.Context, token string) error {
	return s.connection.Set(ctx, s.key, token, 0).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.connection.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.connection.Close()
}
