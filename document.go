package feedify

// Link is a link-like HTML element that might point at a feed.
type Link struct {
	Href    string
	HasHref bool
	// Type is the element's type attribute, e.g. "application/atom+xml".
	Type string
	// Text is the element's text content, falling back to its title or alt
	// attribute when it has none.
	Text string
}

// Document is a parsed HTML page.
type Document interface {
	// Links returns the elements matching a CSS selector in document order.
	Links(selector string) []Link

	// LinkByID returns the first element with the given tag name and id.
	// The bool result is false if there is no such element.
	LinkByID(tag, id string) (Link, bool)

	// Title returns the trimmed text of the page's first <title>.
	Title() string

	// HTML returns the source the document was parsed from.
	HTML() string
}

// Parser builds a queryable Document from HTML.
type Parser interface {
	Parse(html string) (Document, error)
}
