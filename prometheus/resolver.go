// Package prometheus exports feedify metrics with the Prometheus client.
package prometheus

import (
	"context"
	"net/http"
	"time"

	"github.com/GunioRobot/feedify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values.
const (
	OutcomeFeed  = "feed"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Ensure InstrumentedResolver implements feedify.Resolver.
var _ feedify.Resolver = (*InstrumentedResolver)(nil)

// InstrumentedResolver counts resolutions by outcome and error kind and
// records how long they take.
type InstrumentedResolver struct {
	next        feedify.Resolver
	resolutions *prometheus.CounterVec
	duration    prometheus.Histogram
}

// NewInstrumentedResolver wraps next and registers its collectors with reg.
func NewInstrumentedResolver(next feedify.Resolver, reg prometheus.Registerer) *InstrumentedResolver {
	factory := promauto.With(reg)
	return &InstrumentedResolver{
		next: next,
		resolutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feedify_resolutions_total",
				Help: "Total number of feed resolutions, labeled by outcome and error kind.",
			},
			[]string{"outcome", "kind"},
		),
		duration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "feedify_resolution_duration_seconds",
				Help:    "Histogram of feed resolution latencies.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),
	}
}

// Resolve delegates to the wrapped resolver and records the outcome.
func (r *InstrumentedResolver) Resolve(ctx context.Context, rawURL string) (feed string, err error) {
	defer func(begin time.Time) {
		r.duration.Observe(time.Since(begin).Seconds())
		switch {
		case err != nil:
			r.resolutions.WithLabelValues(OutcomeError, feedify.ErrorKind(err)).Inc()
		case feed == "":
			r.resolutions.WithLabelValues(OutcomeEmpty, "").Inc()
		default:
			r.resolutions.WithLabelValues(OutcomeFeed, "").Inc()
		}
	}(time.Now())
	return r.next.Resolve(ctx, rawURL)
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
