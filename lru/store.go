// Package lru provides an in-memory feedify.Store bounded in size.
package lru

import (
	"context"
	"time"

	"github.com/GunioRobot/feedify"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultSize is the default number of entries kept.
const DefaultSize = 10000

// Ensure Store implements feedify.Store at compile time.
var _ feedify.Store = (*Store)(nil)

// Store keeps the most recently used entries in memory. Entries expire
// after the TTL given to Set, and never later than the store's maximum TTL.
type Store struct {
	cache *expirable.LRU[string, entry]
	now   func() time.Time
}

type entry struct {
	value     string
	expiresAt time.Time
}

// Option configures a Store.
type Option func(*options)

type options struct {
	size   int
	maxTTL time.Duration
	now    func() time.Time
}

// WithSize sets the maximum number of entries. Defaults to DefaultSize.
func WithSize(n int) Option {
	return func(o *options) {
		o.size = n
	}
}

// WithMaxTTL caps the lifetime of every entry.
// Defaults to feedify.DefaultCacheTTL.
func WithMaxTTL(d time.Duration) Option {
	return func(o *options) {
		o.maxTTL = d
	}
}

// WithClock sets the time source used for per-entry expiry.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// NewStore creates a new Store.
func NewStore(opts ...Option) *Store {
	o := options{
		size:   DefaultSize,
		maxTTL: feedify.DefaultCacheTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Store{
		cache: expirable.NewLRU[string, entry](o.size, nil, o.maxTTL),
		now:   o.now,
	}
}

// Get returns the unexpired value stored under key.
func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	e, ok := s.cache.Get(key)
	if !ok {
		return "", false, nil
	}
	if !s.now().Before(e.expiresAt) {
		s.cache.Remove(key)
		return "", false, nil
	}
	return e.value, true, nil
}

// Set stores value under key for ttl.
func (s *Store) Set(_ context.Context, key, value string, ttl time.Duration) error {
	s.cache.Add(key, entry{value: value, expiresAt: s.now().Add(ttl)})
	return nil
}

// Len returns the number of entries held, including expired ones not yet
// evicted.
func (s *Store) Len() int {
	return s.cache.Len()
}
