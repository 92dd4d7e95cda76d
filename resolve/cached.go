package resolve

import (
	"context"
	"strings"
	"time"

	"github.com/GunioRobot/feedify"
	"golang.org/x/sync/singleflight"
)

// Ensure CachedResolver implements feedify.Resolver at compile time.
var _ feedify.Resolver = (*CachedResolver)(nil)

// CachedResolver remembers successful resolutions in a Store.
// Concurrent misses for the same key share a single call to the wrapped
// resolver, which runs detached from any single caller's cancellation.
// Errors are never cached.
type CachedResolver struct {
	next  feedify.Resolver
	store feedify.Store
	ttl   time.Duration
	group singleflight.Group
}

// CacheOption configures a CachedResolver.
type CacheOption func(*CachedResolver)

// WithTTL sets how long results are kept. Defaults to feedify.DefaultCacheTTL.
func WithTTL(d time.Duration) CacheOption {
	return func(c *CachedResolver) {
		c.ttl = d
	}
}

// NewCachedResolver wraps next with a cache backed by store.
func NewCachedResolver(next feedify.Resolver, store feedify.Store, opts ...CacheOption) *CachedResolver {
	c := &CachedResolver{
		next:  next,
		store: store,
		ttl:   feedify.DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Resolve returns the cached feed for rawURL, resolving it on a miss.
// A failing Get is treated as a miss and a failing Set is ignored.
func (c *CachedResolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return c.next.Resolve(ctx, rawURL)
	}

	if feed, ok, err := c.store.Get(ctx, rawURL); err == nil && ok {
		return feed, nil
	}

	// The shared call ignores caller cancellation. Each caller stops waiting
	// when its own ctx is done.
	ch := c.group.DoChan(rawURL, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		feed, err := c.next.Resolve(ctx, rawURL)
		if err != nil {
			return "", err
		}
		if feed != "" {
			_ = c.store.Set(ctx, rawURL, feed, c.ttl)
		}
		return feed, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}
