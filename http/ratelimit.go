package http

import (
	"context"
	"strings"
	"sync"

	"github.com/GunioRobot/feedify"
	"golang.org/x/time/rate"
)

var _ feedify.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests to each host with its own token bucket.
// Host names are compared case-insensitively.
type DomainLimiter struct {
	limit    rate.Limit
	limiters sync.Map // host -> *rate.Limiter
}

// NewDomainLimiter allows rps requests per second per host with a burst of
// one. rps <= 0 means unlimited.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &DomainLimiter{limit: limit}
}

// Wait blocks until host may be fetched again or ctx is done.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	key := strings.ToLower(host)
	v, ok := d.limiters.Load(key)
	if !ok {
		v, _ = d.limiters.LoadOrStore(key, rate.NewLimiter(d.limit, 1))
	}
	return v.(*rate.Limiter).Wait(ctx)
}
