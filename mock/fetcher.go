package mock

import (
	"context"

	"github.com/GunioRobot/feedify"
)

var _ feedify.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of feedify.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*feedify.FetchResult, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*feedify.FetchResult, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ feedify.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of feedify.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
