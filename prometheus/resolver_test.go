package prometheus_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/GunioRobot/feedify"
	"github.com/GunioRobot/feedify/mock"
	feedifyprom "github.com/GunioRobot/feedify/prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstrumentedResolver_Resolve(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	results := map[string]struct {
		feed string
		err  error
	}{
		"ok.example":       {feed: "http://ok.example/feed"},
		"none.example":     {err: &feedify.NoFeedError{URL: "http://none.example"}},
		"confused.example": {err: &feedify.ConfusedError{Candidates: []string{"a", "b"}}},
		"down.example":     {err: errors.New("connection refused")},
	}
	inner := &mock.Resolver{
		ResolveFn: func(_ context.Context, rawURL string) (string, error) {
			r := results[rawURL]
			return r.feed, r.err
		},
	}
	r := feedifyprom.NewInstrumentedResolver(inner, reg)

	for _, u := range []string{"ok.example", "ok.example", "none.example", "confused.example", "down.example", ""} {
		_, _ = r.Resolve(context.Background(), u)
	}

	expected := `
# HELP feedify_resolutions_total Total number of feed resolutions, labeled by outcome and error kind.
# TYPE feedify_resolutions_total counter
feedify_resolutions_total{kind="",outcome="empty"} 1
feedify_resolutions_total{kind="",outcome="feed"} 2
feedify_resolutions_total{kind="Confused",outcome="error"} 1
feedify_resolutions_total{kind="Error",outcome="error"} 1
feedify_resolutions_total{kind="NoFeed",outcome="error"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "feedify_resolutions_total"))
	assert.Equal(t, 1, testutil.CollectAndCount(reg, "feedify_resolution_duration_seconds"))
}

func TestInstrumentedResolver_PassesThrough(t *testing.T) {
	t.Parallel()

	cause := &feedify.LoopError{Visited: []string{"http://a", "http://a"}}
	inner := &mock.Resolver{
		ResolveFn: func(context.Context, string) (string, error) { return "", cause },
	}

	_, err := feedifyprom.NewInstrumentedResolver(inner, prometheus.NewRegistry()).Resolve(context.Background(), "a")

	assert.ErrorIs(t, err, cause)
}

func TestHandler(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	inner := &mock.Resolver{
		ResolveFn: func(context.Context, string) (string, error) { return "http://x/feed", nil },
	}
	_, _ = feedifyprom.NewInstrumentedResolver(inner, reg).Resolve(context.Background(), "x")

	rec := httptest.NewRecorder()
	feedifyprom.Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `feedify_resolutions_total{kind="",outcome="feed"} 1`)
}
