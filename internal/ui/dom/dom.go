// Package dom is the slice of the browser DOM the interaction controller
// needs. jsdom implements it over syscall/js; htmldom implements it over
// parsed HTML so the controller runs headless in tests and in site-lint.
//
// Lookups return a nil Element when nothing matches; implementations must
// return an untyped nil, never a typed nil pointer.
package dom

import (
	"net/url"
	"time"
)

// Event types the controller listens for besides the plain DOM ones.
const (
	// EventReady fires once when the document has finished parsing, or
	// immediately if it already has.
	EventReady = "ready"
	// EventPageLoad fires after every client-side navigation.
	EventPageLoad = "astro:page-load"
	// EventScroll is the window scroll event.
	EventScroll = "scroll"
)

// Element is a single DOM node.
type Element interface {
	ID() string
	// Same reports whether other refers to the same node.
	Same(other Element) bool

	HasClass(name string) bool
	AddClass(names ...string)
	RemoveClass(names ...string)

	Attr(name string) (string, bool)
	SetAttr(name, value string)
	RemoveAttr(name string)

	// Closest returns the element itself or its nearest ancestor matching
	// selector.
	Closest(selector string) Element
	Matches(selector string) bool

	Text() string
	SetText(text string)

	Style(property string) string
	SetStyle(property, value string)

	Value() string
	SetValue(value string)
	Checked() bool
	SetChecked(checked bool)
	Disabled() bool
	SetDisabled(disabled bool)

	Focus()
	// ScrollIntoView scrolls smoothly; block is "start", "center" or "nearest".
	ScrollIntoView(block string)

	// FormValues returns the successful controls of a form element, the way
	// the browser's FormData would see them.
	FormValues() url.Values
	// Reset restores a form element's controls to their defaults.
	Reset()
}

// Document is the page the controller operates on.
type Document interface {
	ByID(id string) Element
	Query(selector string) Element
	QueryAll(selector string) []Element
	ActiveElement() Element
	Body() Element
}

// Window exposes viewport and navigation state.
type Window interface {
	Location() *url.URL
	InnerWidth() int
	ScrollY() float64
	ScrollToTop()
	Navigate(href string)
}

// Timer is a pending scheduled callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call prevented it
	// from running.
	Stop() bool
}

// Scheduler runs callbacks after a delay on the UI thread.
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
}

// TimeScheduler runs callbacks with time.AfterFunc. Callbacks run on their
// own goroutine, so it only suits hosts that serialize DOM access.
type TimeScheduler struct{}

// After implements Scheduler.
func (TimeScheduler) After(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Binder attaches page-lifetime listeners and owns the process-wide
// initialization mark.
type Binder interface {
	// Listen registers handler for a document event, the window "scroll"
	// event, or a page lifecycle event such as "astro:page-load".
	Listen(event string, handler func(*Event))
	Marked(key string) bool
	Mark(key string)
}

// Event is the controller's view of a DOM event.
type Event struct {
	Type   string
	Target Element
	Key    string

	prevented bool
}

// PreventDefault asks the host to cancel the native default action.
func (e *Event) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// Visible reports whether a modal-style element is present and shown.
// Visibility is read from the live class list.
func Visible(el Element) bool {
	return el != nil && !el.HasClass("invisible")
}

// Hidden reports whether el carries the "hidden" utility class.
func Hidden(el Element) bool {
	return el != nil && el.HasClass("hidden")
}
