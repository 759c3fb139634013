/*
Package dsl provides a fluent Go API for declaring macros in code.

It is the programmatic counterpart of the JSON macro records: each macro is
validated exactly as a record read from a store would be, and combos are
checked against the reserved set and against each other.

Example usage:

	b := dsl.New()

	b.Add("archive").
		On("Alt+A").
		CheckDuplicates("archive.png", 0.9).
		MoveToImage("archive.png", 0.9, 2*time.Second).
		LeftClick().
		MoveToOrigin()

	store, err := b.Build()
	// ... pass store to shortcutter.New("", shortcutter.WithStore(store))
*/
package dsl
