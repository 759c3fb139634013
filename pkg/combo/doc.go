// Package combo canonicalizes and validates hotkey combinations.
//
// A combo is written as modifier tokens followed by one terminal key, joined
// with "+", for example "ctrl+alt+c". Normalize produces the canonical form
// used as the dispatch key; Check applies the editor's acceptance rules.
package combo
