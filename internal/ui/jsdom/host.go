//go:build js && wasm

package jsdom

import (
	"encoding/json"
	"syscall/js"
	"time"

	"github.com/arcup/arcup-web/internal/ui/dom"
)

// Scheduler runs callbacks through setTimeout, on the browser event loop.
type Scheduler struct{}

var _ dom.Scheduler = Scheduler{}

type timer struct {
	id   js.Value
	fn   js.Func
	done bool
}

// After schedules fn once after d. The callback is released after it runs
// or is stopped.
func (Scheduler) After(d time.Duration, fn func()) dom.Timer {
	t := &timer{}
	t.fn = js.FuncOf(func(this js.Value, args []js.Value) any {
		if t.done {
			return nil
		}
		t.done = true
		t.fn.Release()
		fn()
		return nil
	})
	t.id = js.Global().Call("setTimeout", t.fn, d.Milliseconds())
	return t
}

// Stop clears the timeout. It reports false if the timer already fired.
func (t *timer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	js.Global().Call("clearTimeout", t.id)
	t.fn.Release()
	return true
}

// Binder attaches listeners to document and window for the page lifetime.
// The funcs are never released.
type Binder struct {
	window js.Value
	funcs  []js.Func
}

var _ dom.Binder = (*Binder)(nil)

// NewBinder returns a Binder on the global window.
func NewBinder() *Binder {
	return &Binder{window: js.Global()}
}

// Listen registers handler. "scroll" binds to window; dom.EventReady fires on
// DOMContentLoaded, or right away when the document has already parsed.
func (b *Binder) Listen(event string, handler func(*dom.Event)) {
	doc := b.window.Get("document")
	target, native := doc, event
	switch event {
	case dom.EventScroll:
		target = b.window
	case dom.EventReady:
		if doc.Get("readyState").String() != "loading" {
			handler(&dom.Event{Type: dom.EventReady})
			return
		}
		native = "DOMContentLoaded"
	}

	fn := js.FuncOf(func(this js.Value, args []js.Value) any {
		ev := &dom.Event{Type: event}
		var nativeEv js.Value
		if len(args) > 0 {
			nativeEv = args[0]
			ev.Target = wrap(nativeEv.Get("target"))
			if key := nativeEv.Get("key"); key.Type() == js.TypeString {
				ev.Key = key.String()
			}
		}
		handler(ev)
		if ev.DefaultPrevented() && nativeEv.Truthy() {
			nativeEv.Call("preventDefault")
		}
		return nil
	})
	b.funcs = append(b.funcs, fn)
	target.Call("addEventListener", native, fn)
}

// Marked reports whether window[key] is truthy.
func (b *Binder) Marked(key string) bool {
	return b.window.Get(key).Truthy()
}

// Mark sets window[key] = true.
func (b *Binder) Mark(key string) {
	b.window.Set(key, true)
}

// Console logs through the browser console with an "[ArcUp]" prefix.
type Console struct {
	Verbose bool
}

// Debug logs only when Verbose is set.
func (c Console) Debug(category, message string, fields map[string]any) {
	if c.Verbose {
		c.log("log", category, message, fields)
	}
}

// Warn always logs, as console.warn.
func (c Console) Warn(category, message string, fields map[string]any) {
	c.log("warn", category, message, fields)
}

func (c Console) log(method, category, message string, fields map[string]any) {
	console := js.Global().Get("console")
	if !console.Truthy() {
		return
	}
	args := []any{"[ArcUp]", category + ":", message}
	if len(fields) > 0 {
		if data, err := json.Marshal(fields); err == nil {
			args = append(args, string(data))
		}
	}
	console.Call(method, args...)
}
