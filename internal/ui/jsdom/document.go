//go:build js && wasm

package jsdom

import (
	"net/url"
	"syscall/js"

	"github.com/arcup/arcup-web/internal/ui/dom"
)

// Document wraps window.document.
type Document struct {
	v js.Value
}

var _ dom.Document = (*Document)(nil)

// NewDocument returns the global document.
func NewDocument() *Document {
	return &Document{v: js.Global().Get("document")}
}

// ByID returns the element with the given id, or nil.
func (d *Document) ByID(id string) dom.Element {
	if id == "" {
		return nil
	}
	return wrap(d.v.Call("getElementById", id))
}

// Query returns the first match for selector, or nil.
func (d *Document) Query(selector string) dom.Element {
	return wrap(d.v.Call("querySelector", selector))
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(selector string) []dom.Element {
	list := d.v.Call("querySelectorAll", selector)
	n := list.Length()
	out := make([]dom.Element, 0, n)
	for i := 0; i < n; i++ {
		if el := wrap(list.Index(i)); el != nil {
			out = append(out, el)
		}
	}
	return out
}

// ActiveElement returns the focused element.
func (d *Document) ActiveElement() dom.Element {
	return wrap(d.v.Get("activeElement"))
}

// Body returns the body element.
func (d *Document) Body() dom.Element {
	return wrap(d.v.Get("body"))
}

// Window wraps the global window.
type Window struct {
	v js.Value
}

var _ dom.Window = (*Window)(nil)

// NewWindow returns the global window.
func NewWindow() *Window {
	return &Window{v: js.Global()}
}

// Location parses location.href, falling back to the bare pathname.
func (w *Window) Location() *url.URL {
	u, err := url.Parse(w.v.Get("location").Get("href").String())
	if err != nil {
		return &url.URL{Path: w.v.Get("location").Get("pathname").String()}
	}
	return u
}

// InnerWidth is the viewport width in CSS pixels.
func (w *Window) InnerWidth() int {
	return w.v.Get("innerWidth").Int()
}

// ScrollY is the vertical scroll offset.
func (w *Window) ScrollY() float64 {
	return w.v.Get("scrollY").Float()
}

// ScrollToTop smooth-scrolls the window to the top.
func (w *Window) ScrollToTop() {
	w.v.Call("scrollTo", map[string]any{"top": 0, "behavior": "smooth"})
}

// Navigate assigns location.href.
func (w *Window) Navigate(href string) {
	w.v.Get("location").Set("href", href)
}
