package tokenstore

import (
	"context"
	"os"
	"strings"
)

// DefaultEnvVar holds the token for the env store.
const DefaultEnvVar = "ADMIN_TOKEN"

// EnvStore reads the token from an environment variable at call time.
type EnvStore struct {
	Var string
}

func NewEnvStore(name string) *EnvStore {
	if strings.TrimSpace(name) == "" {
		name = DefaultEnvVar
	}
	return &EnvStore{Var: name}
}

func (s *EnvStore) Token(context.Context) (string, error) {
	return strings.TrimSpace(os.Getenv(s.Var)), nil
}

func (s *EnvStore) Close() error { return nil }
