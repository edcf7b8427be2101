//go:build js && wasm

// Command ui-wasm is the browser build of the interaction controller.
// Build with GOOS=js GOARCH=wasm and serve as main.wasm next to wasm_exec.js.
package main

import "github.com/arcup/arcup-web/internal/ui/wasm"

func main() {
	wasm.RunApp()
}
