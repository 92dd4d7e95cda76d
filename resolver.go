package feedify

import (
	"context"
	"time"
)

// DefaultCacheTTL is how long a resolved feed URL is kept by a caching resolver.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Resolver maps a page URL to the URL of its feed.
type Resolver interface {
	// Resolve returns the feed URL for rawURL.
	// An empty rawURL yields an empty result and no error. Otherwise the
	// result is a non-empty URL or one of the resolution errors
	// (NoFeedError, LoopError, ConfusedError, ...).
	Resolve(ctx context.Context, rawURL string) (string, error)
}

// Store is a key/value store whose entries expire.
type Store interface {
	// Get returns the value for key.
	// The bool result is false if the key is missing or expired.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key for the given time to live.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}
