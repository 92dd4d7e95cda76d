package resolve

import (
	"context"
	"regexp"
	"slices"

	"github.com/GunioRobot/feedify"
)

// DefaultMaxCandidates is the largest number of in-page candidates the
// extractor will confirm before giving up with a ConfusedError.
const DefaultMaxCandidates = 5

// maxConfirmRedirects bounds how many redirects a confirmation fetch follows.
const maxConfirmRedirects = 5

// bloggerTitle is the title of the Blogger interstitial page.
const bloggerTitle = "Blogger: Redirecting"

var feedLinkTypeRe = regexp.MustCompile(`(?i)atom|rss`)

// Strategy names reported on an Extraction.
const (
	StrategyAlternate = "alternate"
	StrategyBlogger   = "blogger"
	StrategyInPage    = "in-page"
)

// Extraction is a candidate found in a page.
type Extraction struct {
	// Href is the candidate link. It may be relative unless Resolved is set.
	Href string

	// Resolved is set when Href is already a resolved feed URL and must not
	// be followed again.
	Resolved bool

	// Strategy names the heuristic that produced the candidate.
	Strategy string
}

// ResolveFunc resolves url within an existing session.
type ResolveFunc func(ctx context.Context, url string, s *feedify.Session) (string, error)

// Extractor mines a parsed page for the link most likely to be its feed.
type Extractor struct {
	// Fetcher confirms in-page candidates.
	Fetcher feedify.Fetcher

	// Resolve follows the Blogger continue link.
	Resolve ResolveFunc

	// MaxCandidates defaults to DefaultMaxCandidates when zero.
	MaxCandidates int
}

// Extract runs the alternate-link, Blogger and in-page strategies in order
// and returns the first candidate found. It returns nil when the page offers
// nothing.
func (e *Extractor) Extract(ctx context.Context, doc feedify.Document, pageURL string, s *feedify.Session) (*Extraction, error) {
	if href := e.alternateLink(doc); href != "" {
		return &Extraction{Href: href, Strategy: StrategyAlternate}, nil
	}

	ext, err := e.bloggerRedirect(ctx, doc, pageURL, s)
	if err != nil || ext != nil {
		return ext, err
	}

	return e.inPageLink(ctx, doc, s)
}

func (e *Extractor) alternateLink(doc feedify.Document) string {
	var links []feedify.Link
	for _, l := range doc.Links(`link[rel="alternate"]`) {
		if feedLinkTypeRe.MatchString(l.Type) {
			links = append(links, l)
		}
	}
	if len(links) == 0 {
		return ""
	}

	hrefs := uniqueHrefs(Prune(links))
	if len(hrefs) == 0 {
		return ""
	}
	return hrefs[0]
}

func (e *Extractor) bloggerRedirect(ctx context.Context, doc feedify.Document, pageURL string, s *feedify.Session) (*Extraction, error) {
	if doc.Title() != bloggerTitle {
		return nil, nil
	}

	link, ok := doc.LinkByID("a", "continueButton")
	if !ok || link.Href == "" {
		return nil, &feedify.BloggerParseError{HTML: doc.HTML()}
	}

	next, err := feedify.ResolveReference(pageURL, link.Href)
	if err != nil {
		return nil, err
	}

	feed, err := e.Resolve(ctx, next, s)
	if err != nil {
		return nil, err
	}
	if feed == "" {
		return nil, nil
	}
	return &Extraction{Href: feed, Resolved: true, Strategy: StrategyBlogger}, nil
}

func (e *Extractor) inPageLink(ctx context.Context, doc feedify.Document, s *feedify.Session) (*Extraction, error) {
	var candidates []string
	for _, href := range uniqueHrefs(Prune(doc.Links("a[href], img[href]"))) {
		u, err := feedify.ResolveReference(s.BaseURI, href)
		if err != nil {
			continue
		}
		if !slices.Contains(candidates, u) {
			candidates = append(candidates, u)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	limit := e.MaxCandidates
	if limit <= 0 {
		limit = DefaultMaxCandidates
	}
	if len(candidates) > limit {
		return nil, &feedify.ConfusedError{Candidates: candidates}
	}

	var survivors []string
	for _, u := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.confirm(ctx, u) {
			survivors = append(survivors, u)
		}
	}

	switch len(survivors) {
	case 0:
		return nil, nil
	case 1:
		return &Extraction{Href: survivors[0], Strategy: StrategyInPage}, nil
	default:
		return nil, &feedify.ConfusedError{Candidates: survivors}
	}
}

// confirm reports whether url serves something that looks like a feed.
// Any fetch error counts as no.
func (e *Extractor) confirm(ctx context.Context, url string) bool {
	for range maxConfirmRedirects + 1 {
		res, err := e.Fetcher.Fetch(ctx, url)
		if err != nil {
			return false
		}
		if res.FinalURL == "" || res.FinalURL == url {
			return feedify.IsFeedContentType(res.ContentType) && feedify.LooksLikeFeed(res.Body)
		}
		if url, err = feedify.ResolveReference(url, res.FinalURL); err != nil {
			return false
		}
	}
	return false
}

// uniqueHrefs returns the hrefs of links in order without duplicates.
func uniqueHrefs(links []feedify.Link) []string {
	var hrefs []string
	for _, l := range links {
		if !slices.Contains(hrefs, l.Href) {
			hrefs = append(hrefs, l.Href)
		}
	}
	return hrefs
}
