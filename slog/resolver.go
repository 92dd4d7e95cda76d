package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/GunioRobot/feedify"
)

// Ensure LoggingResolver implements feedify.Resolver.
var _ feedify.Resolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a Resolver with logging of every resolution.
type LoggingResolver struct {
	next   feedify.Resolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next feedify.Resolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the outcome.
func (r *LoggingResolver) Resolve(ctx context.Context, rawURL string) (feed string, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", rawURL, "feed", feed}
		if err != nil {
			attrs = append(attrs, "kind", feedify.ErrorKind(err))
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		r.logger.Info("resolve", attrs...)
	}(time.Now())
	return r.next.Resolve(ctx, rawURL)
}
