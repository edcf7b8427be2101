//go:build js && wasm

package wasm

import (
	"strings"
	"syscall/js"
)

// DebugStorageKey is the localStorage entry that turns on verbose console
// logging, e.g. localStorage.setItem("arcup-debug", "1").
const DebugStorageKey = "arcup-debug"

func debugEnabled() bool {
	storage := js.Global().Get("localStorage")
	if !storage.Truthy() {
		return false
	}
	value := storage.Call("getItem", DebugStorageKey)
	if value.Type() != js.TypeString {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(value.String())) {
	case "", "0", "false", "off":
		return false
	}
	return true
}
