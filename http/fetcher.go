// Package http provides the HTTP transport for feedify: a Fetcher that
// reports redirects instead of following them, a per-domain rate limiter
// and the web front end.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/GunioRobot/feedify"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxBodySize is the largest response body read, in bytes.
const DefaultMaxBodySize = 8 << 20

// DefaultUserAgent is sent with every request unless overridden.
const DefaultUserAgent = "feedify/1.0 (+https://github.com/GunioRobot/feedify)"

const acceptHeader = "application/atom+xml, application/rss+xml, application/xml;q=0.9, text/xml;q=0.9, text/html;q=0.8, */*;q=0.5"

// Ensure Fetcher implements feedify.Fetcher at compile time.
var _ feedify.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages with plain HTTP GET requests. Redirects are not
// followed: the target of a redirect is returned as FetchResult.FinalURL so
// the resolver can record every hop.
type Fetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	limiter   feedify.DomainLimiter
	maxBody   int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLimiter rate limits requests per host.
func WithLimiter(l feedify.DomainLimiter) Option {
	return func(f *Fetcher) {
		f.limiter = l
	}
}

// WithMaxBodySize caps how many bytes of a response body are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBody = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:   DefaultFetchTimeout,
		userAgent: DefaultUserAgent,
		maxBody:   DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return f
}

// Fetch performs a GET for rawURL.
//
// A 3xx response with a Location header yields a result whose FinalURL is
// the absolute redirect target and whose Body is empty. A redirect back to
// rawURL itself is a LoopError. Any other status outside 2xx is an error.
// Bodies are decoded to UTF-8 using the charset declared by the server or
// the document.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*feedify.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", acceptHeader)

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, req.URL.Hostname()); err != nil {
			return nil, err
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")

	if resp.StatusCode >= 300 && resp.StatusCode < 400 {
		if loc := resp.Header.Get("Location"); loc != "" {
			target, err := redirectTarget(req.URL, loc)
			if err != nil {
				return nil, err
			}
			if target == rawURL {
				return nil, &feedify.LoopError{Visited: []string{rawURL, rawURL}}
			}
			return &feedify.FetchResult{FinalURL: target, ContentType: contentType}, nil
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: rawURL}
	}

	var body io.Reader = io.LimitReader(resp.Body, f.maxBody)
	if r, err := charset.NewReader(body, contentType); err == nil {
		body = r
	}

	b, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	return &feedify.FetchResult{
		FinalURL:    rawURL,
		ContentType: contentType,
		Body:        string(b),
	}, nil
}

// StatusError reports a non-redirect response status outside 2xx.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d for %s", e.StatusCode, e.URL)
}

// ErrorCode returns feedify.EUNAVAILABLE.
func (e *StatusError) ErrorCode() string { return feedify.EUNAVAILABLE }

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

func redirectTarget(base *url.URL, loc string) (string, error) {
	ref, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("invalid redirect location %q: %w", loc, err)
	}
	u := base.ResolveReference(ref)
	u.Fragment = ""
	return u.String(), nil
}
