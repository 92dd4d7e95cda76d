package feedify

import (
	"net/url"
	"regexp"
	"strings"
)

// schemeRe matches a leading URI scheme. A scheme followed by digits is a
// host:port pair ("localhost:8080") and is handled by NormalizeURL.
var schemeRe = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.\-]*):`)

// NormalizeURL validates a user supplied string and rewrites it into an
// absolute http URL.
//
// Surrounding whitespace is trimmed, a leading feed: scheme becomes http:, and
// a string without a scheme is prefixed with http:// after stripping leading
// slashes. An http URL is returned unchanged; any other scheme fails with
// BadSchemeError.
func NormalizeURL(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", Errorf(EINVALID, "url required")
	}

	if hasPrefixFold(s, "feed:") {
		rest := s[len("feed:"):]
		if strings.HasPrefix(rest, "//") {
			s = "http:" + rest
		} else {
			s = rest
		}
	}

	scheme := parseScheme(s)
	switch {
	case scheme == "":
		s = "http://" + strings.TrimLeft(s, "/")
	case strings.EqualFold(scheme, "http"):
	default:
		return "", &BadSchemeError{Scheme: scheme}
	}

	u, err := url.Parse(s)
	if err != nil {
		return "", Errorf(EINVALID, "invalid url %q: %v", raw, err)
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "invalid url %q: missing host", raw)
	}
	return s, nil
}

// ResolveReference resolves href against base and returns the absolute URL
// without its fragment.
//
// NormalizeURL only ever produces http URLs, but redirect targets and hrefs
// found in pages are followed over https too. Any other scheme fails with
// BadSchemeError.
func ResolveReference(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", Errorf(EINVALID, "invalid base url %q: %v", base, err)
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", Errorf(EINVALID, "invalid url %q: %v", href, err)
	}

	u := b.ResolveReference(ref)
	u.Fragment = ""
	u.RawFragment = ""

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", &BadSchemeError{Scheme: u.Scheme}
	}
	if u.Host == "" {
		return "", Errorf(EINVALID, "invalid url %q: missing host", href)
	}
	return u.String(), nil
}

// parseScheme returns the scheme of s, or "" when s has none.
func parseScheme(s string) string {
	m := schemeRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	rest := s[len(m[0]):]
	if rest != "" && rest[0] >= '0' && rest[0] <= '9' {
		return ""
	}
	return m[1]
}

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
