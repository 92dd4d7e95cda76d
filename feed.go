package feedify

import (
	"context"
	"regexp"
)

var (
	feedContentTypeRe = regexp.MustCompile(`(?i)atom|rss|xml`)
	htmlContentTypeRe = regexp.MustCompile(`(?i)html`)
	feedBodyRe        = regexp.MustCompile(`(?i)<channel|<feed[\s>]`)
)

// IsFeedContentType reports whether a Content-Type header names a feed.
// Any mention of atom, rss or xml counts.
func IsFeedContentType(contentType string) bool {
	return feedContentTypeRe.MatchString(contentType)
}

// IsHTMLContentType reports whether a Content-Type header names an HTML page.
func IsHTMLContentType(contentType string) bool {
	return htmlContentTypeRe.MatchString(contentType)
}

// LooksLikeFeed reports whether body contains an RSS <channel> or an Atom
// <feed> root. It is a cheap sniff, not validation.
func LooksLikeFeed(body string) bool {
	return feedBodyRe.MatchString(body)
}

// FeedInfo describes a fetched and parsed feed.
type FeedInfo struct {
	URL      string
	Title    string
	Link     string
	FeedType string // "atom", "rss" or "json"
	Items    int
}

// FeedInspector fetches a feed and reads its metadata.
type FeedInspector interface {
	Inspect(ctx context.Context, feedURL string) (*FeedInfo, error)
}

// Subscription pairs a page with the feed it resolved to.
type Subscription struct {
	PageURL string
	FeedURL string
	Title   string
}
