// Package resolve implements the feed resolution engine: a recursive
// fetch, classify and traverse walk from a page URL to its feed.
package resolve

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/GunioRobot/feedify"
)

// DefaultMaxDepth is the largest number of URLs one resolution may visit.
const DefaultMaxDepth = 20

// Ensure Resolver implements feedify.Resolver at compile time.
var _ feedify.Resolver = (*Resolver)(nil)

// Resolver finds the feed of a page by following redirects, reading
// content types and mining HTML for candidates.
type Resolver struct {
	fetcher   feedify.Fetcher
	parser    feedify.Parser
	maxDepth  int
	extractor *Extractor
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxDepth limits how many URLs a single resolution may visit.
// Defaults to DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(r *Resolver) {
		r.maxDepth = n
	}
}

// WithMaxCandidates sets how many in-page candidates are confirmed before
// the page is reported as confusing. Defaults to DefaultMaxCandidates.
func WithMaxCandidates(n int) Option {
	return func(r *Resolver) {
		r.extractor.MaxCandidates = n
	}
}

// NewResolver creates a Resolver that fetches with fetcher and parses HTML
// with parser.
func NewResolver(fetcher feedify.Fetcher, parser feedify.Parser, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher:  fetcher,
		parser:   parser,
		maxDepth: DefaultMaxDepth,
	}
	r.extractor = &Extractor{
		Fetcher:       fetcher,
		Resolve:       r.resolve,
		MaxCandidates: DefaultMaxCandidates,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the feed URL for rawURL.
// A blank rawURL resolves to "" without error.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", nil
	}

	u, err := feedify.NormalizeURL(rawURL)
	if err != nil {
		return "", err
	}

	feed, err := r.resolve(ctx, u, feedify.NewSession(u))
	if err != nil {
		return "", err
	}
	if feed == "" {
		return "", &feedify.NoFeedError{URL: u}
	}
	return feed, nil
}

// resolve visits u within session s. It returns "" when u leads nowhere.
func (r *Resolver) resolve(ctx context.Context, u string, s *feedify.Session) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := s.Visit(u); err != nil {
		return "", err
	}
	if r.maxDepth > 0 && s.Len() > r.maxDepth {
		return "", &feedify.LoopError{Visited: s.Visited(), MaxDepth: r.maxDepth}
	}

	res, err := r.fetcher.Fetch(ctx, u)
	if err != nil {
		return "", translateFetchError(u, s, err)
	}

	switch {
	case res.FinalURL != "" && res.FinalURL != u:
		next, err := feedify.ResolveReference(u, res.FinalURL)
		if err != nil {
			return "", err
		}
		return r.resolve(ctx, next, s)

	case feedify.IsFeedContentType(res.ContentType):
		return u, nil

	case feedify.IsHTMLContentType(res.ContentType):
		doc, err := r.parser.Parse(res.Body)
		if err != nil {
			return "", err
		}
		ext, err := r.extractor.Extract(ctx, doc, u, s)
		if err != nil || ext == nil {
			return "", err
		}
		if ext.Resolved {
			return ext.Href, nil
		}
		next, err := feedify.ResolveReference(u, ext.Href)
		if err != nil {
			return "", err
		}
		return r.resolve(ctx, next, s)

	default:
		return "", &feedify.UnrecognisedMimeTypeError{MimeType: res.ContentType, URL: u}
	}
}

// translateFetchError reports an unknown host as a MissingPageError. A loop
// seen by the transport, such as a page redirecting to itself, is reported
// with the whole session chain.
func translateFetchError(u string, s *feedify.Session, err error) error {
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return &feedify.MissingPageError{URL: u, Err: err}
	}
	var loop *feedify.LoopError
	if errors.As(err, &loop) {
		return &feedify.LoopError{Visited: append(s.Visited(), u)}
	}
	return err
}
