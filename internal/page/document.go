// Package page holds a parsed host page. A Document is the nav.Writer the
// injector writes the fragment through.
package page

import (
	"bytes"
	"fmt"
	"io"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/navinject/internal/nav"
)

// ErrPlaceholderNotFound is returned when the page has no element with the
// requested id. It is the injector's error so either side can be matched.
var ErrPlaceholderNotFound = nav.ErrPlaceholderNotFound

// Document is a parsed HTML page.
type Document struct {
	root *html.Node
	doc  *goquery.Document
}

// Parse reads a full HTML page.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return &Document{root: root, doc: goquery.NewDocumentFromNode(root)}, nil
}

// ParseBytes is a convenience wrapper around Parse.
func ParseBytes(b []byte) (*Document, error) {
	return Parse(bytes.NewReader(b))
}

// HasElement reports whether an element with the given id exists.
func (d *Document) HasElement(id string) bool {
	return d.byID(id).Length() > 0
}

// ReplaceContent replaces the children of the first element whose id equals
// id with the parsed markup.
func (d *Document) ReplaceContent(id, markup string) error {
	sel := d.byID(id)
	if sel.Length() == 0 {
		return fmt.Errorf("%w: #%s", ErrPlaceholderNotFound, id)
	}
	sel.SetHtml(markup)
	return nil
}

// Render writes the page as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// Bytes renders the page into memory.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}
	return buf.Bytes(), nil
}

// byID matches on the attribute value rather than a "#id" selector so ids
// containing selector metacharacters still resolve.
func (d *Document) byID(id string) *goquery.Selection {
	return d.doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("id")
		return v == id
	}).First()
}

var _ nav.Writer = (*Document)(nil)
