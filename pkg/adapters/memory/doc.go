// Package memory provides in-process implementations of the shortcutter ports.
//
// Store keeps macro records in a map. Keyboard, Pointer and Screen simulate the
// input platform, which lets the engine run headless in tests and dry runs.
package memory
