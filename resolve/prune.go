package resolve

import (
	"regexp"
	"strings"

	"github.com/GunioRobot/feedify"
)

var (
	// skipHrefRe matches hrefs that cannot be feeds.
	skipHrefRe = regexp.MustCompile(`\.(css|js|html?|jpg|gif|zip|jnlp)$`)

	// feedWordRe matches hrefs or link text that name a feed.
	feedWordRe = regexp.MustCompile(`(?i)(atom|feed|rss)\b`)

	atomRe = regexp.MustCompile(`(?i)atom`)
)

// Prune narrows link-like elements down to likely feed candidates.
//
// Links without an href, with an href that ends in a static asset extension
// or that starts with '#' are dropped. The rest are narrowed in turn to links
// that mention a feed, links typed as Atom and links that do not point at
// comment feeds. Each narrowing step is skipped when it would leave nothing,
// so the result is empty only when no link passes the first filter.
func Prune(links []feedify.Link) []feedify.Link {
	var out []feedify.Link
	for _, l := range links {
		if quickFilter(l) {
			out = append(out, l)
		}
	}

	out = narrow(out, func(l feedify.Link) bool {
		return feedWordRe.MatchString(l.Href) || feedWordRe.MatchString(l.Text)
	})

	if len(out) > 1 {
		out = narrow(out, func(l feedify.Link) bool {
			if l.Type != "" {
				return atomRe.MatchString(l.Type)
			}
			return atomRe.MatchString(l.Text)
		})
	}

	if len(out) > 1 {
		out = narrow(out, func(l feedify.Link) bool {
			return !strings.Contains(l.Href, "comments")
		})
	}

	return out
}

func quickFilter(l feedify.Link) bool {
	if !l.HasHref || l.Href == "" {
		return false
	}
	return !skipHrefRe.MatchString(l.Href) && !strings.HasPrefix(l.Href, "#")
}

// narrow keeps the links matching keep, or all of them if none match.
func narrow(links []feedify.Link, keep func(feedify.Link) bool) []feedify.Link {
	var kept []feedify.Link
	for _, l := range links {
		if keep(l) {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return links
	}
	return kept
}
