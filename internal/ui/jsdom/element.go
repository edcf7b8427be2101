//go:build js && wasm

// Package jsdom implements the dom interfaces over the live browser DOM.
package jsdom

import (
	"net/url"
	"syscall/js"

	"github.com/arcup/arcup-web/internal/ui/dom"
)

const elementNode = 1

// element is a pointer type so Element values stay comparable; js.Value is not.
type element struct {
	v js.Value
}

var _ dom.Element = (*element)(nil)

// wrap returns nil for null, undefined and non-element nodes. Text node
// targets are lifted to their parent element.
func wrap(v js.Value) dom.Element {
	if !v.Truthy() {
		return nil
	}
	if nt := v.Get("nodeType"); nt.Type() == js.TypeNumber && nt.Int() != elementNode {
		return wrap(v.Get("parentElement"))
	}
	return &element{v: v}
}

// ID returns the id property.
func (e *element) ID() string {
	return e.v.Get("id").String()
}

// Same reports whether other wraps the same DOM node.
func (e *element) Same(other dom.Element) bool {
	o, ok := other.(*element)
	return ok && o != nil && e.v.Equal(o.v)
}

// HasClass reports whether classList contains name.
func (e *element) HasClass(name string) bool {
	return e.v.Get("classList").Call("contains", name).Bool()
}

// AddClass adds names to classList. It is a no-op without names.
func (e *element) AddClass(names ...string) {
	if len(names) == 0 {
		return
	}
	e.v.Get("classList").Call("add", toAny(names)...)
}

// RemoveClass is a no-op without names.
func (e *element) RemoveClass(names ...string) {
	if len(names) == 0 {
		return
	}
	e.v.Get("classList").Call("remove", toAny(names)...)
}

// Attr returns the attribute and whether it is present.
func (e *element) Attr(name string) (string, bool) {
	v := e.v.Call("getAttribute", name)
	if v.IsNull() || v.IsUndefined() {
		return "", false
	}
	return v.String(), true
}

// SetAttr sets an attribute.
func (e *element) SetAttr(name, value string) {
	e.v.Call("setAttribute", name, value)
}

// RemoveAttr removes an attribute.
func (e *element) RemoveAttr(name string) {
	e.v.Call("removeAttribute", name)
}

// Closest returns the nearest ancestor-or-self matching selector.
func (e *element) Closest(selector string) dom.Element {
	return wrap(e.v.Call("closest", selector))
}

// Matches reports whether the element matches selector.
func (e *element) Matches(selector string) bool {
	return e.v.Call("matches", selector).Bool()
}

// Text returns textContent.
func (e *element) Text() string {
	return e.v.Get("textContent").String()
}

// SetText replaces textContent.
func (e *element) SetText(text string) {
	e.v.Set("textContent", text)
}

// Style reads an inline style property.
func (e *element) Style(property string) string {
	return e.v.Get("style").Call("getPropertyValue", property).String()
}

// SetStyle sets an inline style property. An empty value removes it.
func (e *element) SetStyle(property, value string) {
	style := e.v.Get("style")
	if value == "" {
		style.Call("removeProperty", property)
		return
	}
	style.Call("setProperty", property, value)
}

// Value returns the value property, or "" for elements without one.
func (e *element) Value() string {
	v := e.v.Get("value")
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

// SetValue sets the value property.
func (e *element) SetValue(value string) {
	e.v.Set("value", value)
}

// Checked reports the checked property.
func (e *element) Checked() bool {
	return e.v.Get("checked").Truthy()
}

// SetChecked sets the checked property.
func (e *element) SetChecked(checked bool) {
	e.v.Set("checked", checked)
}

// Disabled reports the disabled property.
func (e *element) Disabled() bool {
	return e.v.Get("disabled").Truthy()
}

// SetDisabled sets the disabled property.
func (e *element) SetDisabled(disabled bool) {
	e.v.Set("disabled", disabled)
}

// Focus moves focus to the element.
func (e *element) Focus() {
	e.v.Call("focus")
}

// ScrollIntoView smooth-scrolls the element to the given block alignment.
func (e *element) ScrollIntoView(block string) {
	e.v.Call("scrollIntoView", map[string]any{"behavior": "smooth", "block": block})
}

// FormValues reads the form through FormData. File entries are skipped.
func (e *element) FormValues() url.Values {
	values := url.Values{}
	ctor := js.Global().Get("FormData")
	if !ctor.Truthy() {
		return values
	}
	entries := js.Global().Get("Array").Call("from", ctor.New(e.v).Call("entries"))
	for i := 0; i < entries.Length(); i++ {
		pair := entries.Index(i)
		if v := pair.Index(1); v.Type() == js.TypeString {
			values.Add(pair.Index(0).String(), v.String())
		}
	}
	return values
}

// Reset calls form.reset when the element has one.
func (e *element) Reset() {
	if fn := e.v.Get("reset"); fn.Type() == js.TypeFunction {
		e.v.Call("reset")
	}
}

func toAny(names []string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = n
	}
	return out
}
