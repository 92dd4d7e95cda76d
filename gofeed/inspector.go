// Package gofeed reads feed metadata with mmcdole/gofeed.
package gofeed

import (
	"context"
	"strings"

	"github.com/GunioRobot/feedify"
	"github.com/mmcdole/gofeed"
)

// maxRedirects bounds the redirects followed while fetching a feed.
const maxRedirects = 5

// Ensure Inspector implements feedify.FeedInspector at compile time.
var _ feedify.FeedInspector = (*Inspector)(nil)

// Inspector fetches a feed and parses its title, link and item count.
type Inspector struct {
	fetcher feedify.Fetcher
	parser  *gofeed.Parser
}

// NewInspector creates an Inspector that fetches with fetcher.
func NewInspector(fetcher feedify.Fetcher) *Inspector {
	return &Inspector{
		fetcher: fetcher,
		parser:  gofeed.NewParser(),
	}
}

// Inspect fetches feedURL, following redirects, and parses it.
// A body that is not a feed is an EINVALID error.
func (i *Inspector) Inspect(ctx context.Context, feedURL string) (*feedify.FeedInfo, error) {
	u := feedURL
	var res *feedify.FetchResult
	for hop := 0; ; hop++ {
		var err error
		res, err = i.fetcher.Fetch(ctx, u)
		if err != nil {
			return nil, err
		}
		if res.FinalURL == "" || res.FinalURL == u {
			break
		}
		if hop == maxRedirects {
			return nil, feedify.Errorf(feedify.EINVALID, "too many redirects fetching %s", feedURL)
		}
		if u, err = feedify.ResolveReference(u, res.FinalURL); err != nil {
			return nil, err
		}
	}

	feed, err := i.parser.ParseString(res.Body)
	if err != nil {
		return nil, feedify.Errorf(feedify.EINVALID, "failed to parse feed %s: %v", u, err)
	}

	return &feedify.FeedInfo{
		URL:      feedURL,
		Title:    strings.TrimSpace(feed.Title),
		Link:     feed.Link,
		FeedType: feed.FeedType,
		Items:    len(feed.Items),
	}, nil
}
