// Package slog provides logging decorators for feedify services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/GunioRobot/feedify"
)

// Ensure LoggingFetcher implements feedify.Fetcher.
var _ feedify.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with debug logging.
type LoggingFetcher struct {
	next   feedify.Fetcher
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher.
func NewLoggingFetcher(next feedify.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the request.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (res *feedify.FetchResult, err error) {
	defer func(begin time.Time) {
		attrs := []any{"url", url}
		if res != nil {
			if res.FinalURL != url {
				attrs = append(attrs, "location", res.FinalURL)
			}
			attrs = append(attrs, "content_type", res.ContentType, "bytes", len(res.Body))
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		f.logger.Info("fetch", attrs...)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
