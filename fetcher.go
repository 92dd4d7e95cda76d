package feedify

import "context"

// FetchResult is the outcome of a single GET.
type FetchResult struct {
	// FinalURL is the URL the server pointed at. It differs from the
	// requested URL when the response was a redirect.
	FinalURL    string
	ContentType string
	Body        string
}

// Fetcher retrieves pages over HTTP.
type Fetcher interface {
	// Fetch performs a GET for url without following redirects; a redirect
	// is reported through FetchResult.FinalURL.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// Close releases resources.
	Close() error
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
