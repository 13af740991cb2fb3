// Package tokenstore supplies the admin token presented to the invenso
// backend. The token lives in an external key-value store under a fixed
// key and is read on every request, so rotating it in the store takes
// effect on the next backend call without restarting anything.
package tokenstore

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	intconfig "invenso/internal/config"
)

// DefaultKey is the key the admin token is stored under.
const DefaultKey = "admin_token"

// Provider returns the current admin token. An empty token is not an
// error: the request goes out without a usable credential and the
// backend answers for it.
type Provider interface {
	Token(ctx context.Context) (string, error)
}

// Writer is implemented by stores an operator can seed from the CLI.
type Writer interface {
	SetToken(ctx context.Context, token string) error
}

// Pinger is implemented by stores that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store is a Provider that owns a connection.
type Store interface {
	Provider
	Close() error
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (string, error)

func (f ProviderFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// Static always returns the same token.
type Static string

func (s Static) Token(context.Context) (string, error) { return string(s), nil }

// Options selects and configures a store backend.
type Options struct {
	Type   string // env, file, redis, memcached, sqlite, mysql
	Key    string
	Prefix string

	EnvVar string
	File   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	MemcachedAddr string

	SQLitePath string
	MySQLDSN   string
}

var identRe = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// New opens the store selected by opts.Type.
func New(opts Options) (Store, error) {
	if strings.TrimSpace(opts.Key) == "" {
		opts.Key = DefaultKey
	}
	switch strings.ToLower(strings.TrimSpace(opts.Type)) {
	case "", "env":
		return NewEnvStore(opts.EnvVar), nil
	case "file":
		if opts.File == "" {
			return nil, fmt.Errorf("token store file: path kosong")
		}
		return NewFileStore(opts.File), nil
	case "redis":
		return NewRedisStore(opts), nil
	case "memcached":
		return NewMemcachedStore(opts), nil
	case "sqlite":
		return OpenSQLiteStore(opts)
	case "mysql":
		return OpenMySQLStore(opts)
	}
	return nil, fmt.Errorf("token store %q tidak didukung", opts.Type)
}

// namespacedKey joins prefix and key the way the cache backends store it.
func namespacedKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + ":" + key
}

// OptionsFromEnv maps the loaded configuration onto store options.
func OptionsFromEnv(env intconfig.Env) Options {
	return Options{
		Type:          env.TokenStore,
		Key:           env.TokenKey,
		Prefix:        env.TokenPrefix,
		EnvVar:        env.TokenEnvVar,
		File:          env.TokenFile,
		RedisAddr:     env.RedisAddr,
		RedisPassword: env.RedisPassword,
		RedisDB:       env.RedisDB,
		MemcachedAddr: env.MemcachedAddr,
		SQLitePath:    env.SQLitePath,
		MySQLDSN:      env.MySQLDSN,
	}
}
