// Package goquery implements feedify.Parser on top of PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/GunioRobot/feedify"
	"github.com/PuerkitoBio/goquery"
)

// Ensure Parser implements feedify.Parser at compile time.
var _ feedify.Parser = (*Parser)(nil)

// Parser builds goquery-backed documents.
type Parser struct{}

// NewParser creates a new Parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse parses html into a queryable Document.
func (p *Parser) Parse(html string) (feedify.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, feedify.Errorf(feedify.EINVALID, "failed to parse HTML: %v", err)
	}
	return &Document{doc: doc, html: html}, nil
}

// Ensure Document implements feedify.Document at compile time.
var _ feedify.Document = (*Document)(nil)

// Document wraps a parsed goquery document.
type Document struct {
	doc  *goquery.Document
	html string
}

// Links returns the elements matching selector in document order.
func (d *Document) Links(selector string) []feedify.Link {
	var links []feedify.Link
	d.doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		links = append(links, toLink(sel))
	})
	return links
}

// LinkByID returns the first tag element whose id attribute equals id.
func (d *Document) LinkByID(tag, id string) (feedify.Link, bool) {
	var (
		found feedify.Link
		ok    bool
	)
	d.doc.Find(tag).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if v, exists := sel.Attr("id"); exists && v == id {
			found, ok = toLink(sel), true
			return false
		}
		return true
	})
	return found, ok
}

// Title returns the trimmed text of the first <title> element.
func (d *Document) Title() string {
	return strings.TrimSpace(d.doc.Find("title").First().Text())
}

// HTML returns the source the document was parsed from.
func (d *Document) HTML() string {
	return d.html
}

func toLink(sel *goquery.Selection) feedify.Link {
	href, hasHref := sel.Attr("href")
	typ, _ := sel.Attr("type")

	text := strings.TrimSpace(sel.Text())
	if text == "" {
		if title, ok := sel.Attr("title"); ok {
			text = strings.TrimSpace(title)
		}
	}
	if text == "" {
		if alt, ok := sel.Attr("alt"); ok {
			text = strings.TrimSpace(alt)
		}
	}

	return feedify.Link{
		Href:    strings.TrimSpace(href),
		HasHref: hasHref,
		Type:    typ,
		Text:    text,
	}
}
