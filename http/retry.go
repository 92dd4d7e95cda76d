package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/GunioRobot/feedify"
)

var _ feedify.Fetcher = (*RetryFetcher)(nil)

// BackoffDelays returns n delays starting at base and doubling each time.
func BackoffDelays(n int, base time.Duration) []time.Duration {
	delays := make([]time.Duration, 0, n)
	for i := 0; i < n; i++ {
		delays = append(delays, base<<i)
	}
	return delays
}

// RetryFetcher retries transient fetch failures, waiting delays[i] before
// retry i+1.
type RetryFetcher struct {
	next   feedify.Fetcher
	delays []time.Duration
	logger *slog.Logger
}

// NewRetryFetcher wraps next. A nil logger disables retry logging.
func NewRetryFetcher(next feedify.Fetcher, delays []time.Duration, logger *slog.Logger) *RetryFetcher {
	return &RetryFetcher{next: next, delays: delays, logger: logger}
}

func (f *RetryFetcher) Fetch(ctx context.Context, url string) (*feedify.FetchResult, error) {
	maxAttempts := len(f.delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		res, err := f.next.Fetch(ctx, url)
		if err == nil {
			return res, nil
		}
		lastErr = err

		if attempt >= maxAttempts-1 || ctx.Err() != nil || !Temporary(err) {
			break
		}

		if f.logger != nil {
			f.logger.Warn("retry fetch", "url", url, "attempt", attempt+2, "err", err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delays[attempt]):
		}
	}

	return nil, lastErr
}

func (f *RetryFetcher) Close() error {
	return f.next.Close()
}

// Temporary reports whether a fetch error is worth retrying: a 5xx or 429
// response, or a network timeout.
func Temporary(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500 || statusErr.StatusCode == http.StatusTooManyRequests
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return false
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
