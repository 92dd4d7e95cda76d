// Package etree reads and writes OPML subscription lists with beevik/etree.
package etree

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/GunioRobot/feedify"
	"github.com/beevik/etree"
)

// WriteOPML writes subs as an OPML 2.0 document titled title.
func WriteOPML(w io.Writer, title string, subs []feedify.Subscription) error {
	return writeOPML(w, title, subs, time.Now())
}

func writeOPML(w io.Writer, title string, subs []feedify.Subscription, now time.Time) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	opml := doc.CreateElement("opml")
	opml.CreateAttr("version", "2.0")

	head := opml.CreateElement("head")
	head.CreateElement("title").SetText(title)
	head.CreateElement("dateCreated").SetText(now.UTC().Format(time.RFC1123Z))

	body := opml.CreateElement("body")
	for _, sub := range subs {
		text := sub.Title
		if text == "" {
			text = sub.PageURL
		}
		outline := body.CreateElement("outline")
		outline.CreateAttr("type", "rss")
		outline.CreateAttr("text", text)
		outline.CreateAttr("title", text)
		outline.CreateAttr("xmlUrl", sub.FeedURL)
		outline.CreateAttr("htmlUrl", sub.PageURL)
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("writing OPML: %w", err)
	}
	return nil
}

// ReadOPML returns the subscriptions listed in an OPML document, including
// those in nested outline folders. Outlines without a feed or page URL are
// skipped.
func ReadOPML(r io.Reader) ([]feedify.Subscription, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, feedify.Errorf(feedify.EINVALID, "parsing OPML: %v", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "opml" {
		return nil, feedify.Errorf(feedify.EINVALID, "not an OPML document")
	}

	subs := []feedify.Subscription{}
	if body := root.SelectElement("body"); body != nil {
		subs = collectOutlines(body, subs)
	}
	return subs, nil
}

// collectOutlines appends the subscriptions under parent in document order.
func collectOutlines(parent *etree.Element, subs []feedify.Subscription) []feedify.Subscription {
	for _, outline := range parent.SelectElements("outline") {
		sub := feedify.Subscription{
			PageURL: strings.TrimSpace(outline.SelectAttrValue("htmlUrl", "")),
			FeedURL: strings.TrimSpace(outline.SelectAttrValue("xmlUrl", "")),
			Title:   outline.SelectAttrValue("title", outline.SelectAttrValue("text", "")),
		}
		if sub.PageURL != "" || sub.FeedURL != "" {
			subs = append(subs, sub)
		}
		subs = collectOutlines(outline, subs)
	}
	return subs
}
