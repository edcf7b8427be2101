// Package htmldom implements the dom interfaces over a parsed HTML tree so
// the interaction controller can run without a browser.
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/arcup/arcup-web/internal/ui/dom"
)

// Scroll records one ScrollIntoView call.
type Scroll struct {
	ID    string
	Block string
}

type controlDefault struct {
	value    string
	hasValue bool
	checked  bool
	selected bool
	text     string
}

// Document is a headless page.
type Document struct {
	doc      *goquery.Document
	active   *html.Node
	defaults map[*html.Node]controlDefault

	// Scrolls lists ScrollIntoView calls in order.
	Scrolls []Scroll
}

var _ dom.Document = (*Document)(nil)

// Parse builds a Document from HTML.
func Parse(r io.Reader) (*Document, error) {
	gq, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	d := &Document{doc: gq, defaults: make(map[*html.Node]controlDefault)}
	gq.Find("input, textarea, option").Each(func(_ int, s *goquery.Selection) {
		n := s.Nodes[0]
		v, hasValue := s.Attr("value")
		_, checked := s.Attr("checked")
		_, selected := s.Attr("selected")
		d.defaults[n] = controlDefault{
			value:    v,
			hasValue: hasValue,
			checked:  checked,
			selected: selected,
			text:     s.Text(),
		}
	})
	return d, nil
}

// ParseString is Parse over a string.
func ParseString(src string) (*Document, error) {
	return Parse(strings.NewReader(src))
}

// MustParse panics on malformed input; meant for test fixtures.
func MustParse(src string) *Document {
	d, err := ParseString(src)
	if err != nil {
		panic(err)
	}
	return d
}

// HTML renders the current tree.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	for _, n := range d.doc.Nodes {
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func (d *Document) wrap(n *html.Node) dom.Element {
	if n == nil {
		return nil
	}
	return &element{d: d, n: n}
}

func (d *Document) first(s *goquery.Selection) dom.Element {
	if s.Length() == 0 {
		return nil
	}
	return d.wrap(s.Nodes[0])
}

// ByID returns the element with the given id.
func (d *Document) ByID(id string) dom.Element {
	if id == "" {
		return nil
	}
	var found *html.Node
	d.doc.Find("[id]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if v, _ := s.Attr("id"); v == id {
			found = s.Nodes[0]
			return false
		}
		return true
	})
	return d.wrap(found)
}

// Query returns the first element matching selector.
func (d *Document) Query(selector string) dom.Element {
	return d.first(d.doc.Find(selector))
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(selector string) []dom.Element {
	sel := d.doc.Find(selector)
	out := make([]dom.Element, 0, sel.Length())
	for _, n := range sel.Nodes {
		out = append(out, d.wrap(n))
	}
	return out
}

// ActiveElement returns the focused element, or body when nothing has focus.
func (d *Document) ActiveElement() dom.Element {
	if d.active != nil {
		return d.wrap(d.active)
	}
	return d.Body()
}

// Body returns the body element.
func (d *Document) Body() dom.Element {
	return d.first(d.doc.Find("body"))
}

// Blur clears focus.
func (d *Document) Blur() {
	d.active = nil
}

// ScrolledTo reports whether ScrollIntoView was called on the element with id.
func (d *Document) ScrolledTo(id string) bool {
	for _, s := range d.Scrolls {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Window is a headless viewport.
type Window struct {
	URL   *url.URL
	Width int
	Y     float64

	// Navigations lists every Navigate target.
	Navigations []string
	// TopScrolls counts ScrollToTop calls.
	TopScrolls int
}

var _ dom.Window = (*Window)(nil)

// NewWindow builds a Window for rawURL. Unparseable URLs fall back to "/".
func NewWindow(rawURL string, width int) *Window {
	u, err := url.Parse(rawURL)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	return &Window{URL: u, Width: width}
}

// Location returns a copy of the current URL.
func (w *Window) Location() *url.URL {
	cp := *w.URL
	return &cp
}

// InnerWidth returns the viewport width.
func (w *Window) InnerWidth() int { return w.Width }

// ScrollY returns the vertical scroll offset.
func (w *Window) ScrollY() float64 { return w.Y }

// ScrollToTop resets the scroll offset.
func (w *Window) ScrollToTop() {
	w.TopScrolls++
	w.Y = 0
}

// Navigate records a navigation and updates the URL.
func (w *Window) Navigate(href string) {
	w.Navigations = append(w.Navigations, href)
	if u, err := w.URL.Parse(href); err == nil {
		w.URL = u
	}
}
