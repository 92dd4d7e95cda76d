package mock

import (
	"context"
	"time"

	"github.com/GunioRobot/feedify"
)

var _ feedify.Resolver = (*Resolver)(nil)

// Resolver is a mock implementation of feedify.Resolver.
type Resolver struct {
	ResolveFn func(ctx context.Context, rawURL string) (string, error)
}

func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	return r.ResolveFn(ctx, rawURL)
}

var _ feedify.Store = (*Store)(nil)

// Store is a mock implementation of feedify.Store.
type Store struct {
	GetFn func(ctx context.Context, key string) (string, bool, error)
	SetFn func(ctx context.Context, key, value string, ttl time.Duration) error
}

func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	return s.GetFn(ctx, key)
}

func (s *Store) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.SetFn(ctx, key, value, ttl)
}
