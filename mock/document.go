package mock

import "github.com/GunioRobot/feedify"

var _ feedify.Parser = (*Parser)(nil)

// Parser is a mock implementation of feedify.Parser.
type Parser struct {
	ParseFn func(html string) (feedify.Document, error)
}

func (p *Parser) Parse(html string) (feedify.Document, error) {
	return p.ParseFn(html)
}

var _ feedify.Document = (*Document)(nil)

// Document is a mock implementation of feedify.Document.
type Document struct {
	LinksFn    func(selector string) []feedify.Link
	LinkByIDFn func(tag, id string) (feedify.Link, bool)
	TitleFn    func() string
	HTMLFn     func() string
}

func (d *Document) Links(selector string) []feedify.Link {
	return d.LinksFn(selector)
}

func (d *Document) LinkByID(tag, id string) (feedify.Link, bool) {
	return d.LinkByIDFn(tag, id)
}

func (d *Document) Title() string {
	return d.TitleFn()
}

func (d *Document) HTML() string {
	return d.HTMLFn()
}
