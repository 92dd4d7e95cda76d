package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/GunioRobot/feedify"
)

// Ensure LoggingStore implements feedify.Store.
var _ feedify.Store = (*LoggingStore)(nil)

// LoggingStore wraps a Store with debug logging.
type LoggingStore struct {
	next   feedify.Store
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next feedify.Store, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Get delegates to the wrapped store and logs hits and misses.
func (s *LoggingStore) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("cache get",
			"key", key,
			"hit", ok,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Get(ctx, key)
}

// Set delegates to the wrapped store and logs the write.
func (s *LoggingStore) Set(ctx context.Context, key, value string, ttl time.Duration) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("cache set",
			"key", key,
			"value", value,
			"ttl", ttl,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Set(ctx, key, value, ttl)
}
