/*
Package shortcutter binds keyboard combinations to replayable macros of pointer
and timing steps, and replays them when the combination is pressed.

A macro is a named, ordered list of steps (delays, moves to an on-screen image,
moves back to the starting pointer position, clicks, duplicate checks) bound to
one canonical combo such as "alt+ctrl+f5". Each trigger runs as its own
instance: steps are strictly ordered within an instance, a second press of a
combo whose macro is still running is dropped, and pointer steps from
concurrent instances never interleave. The pointer always returns to where it
was when the macro started.

# Architecture

The engine is hexagonal. Storage (file, redis, memory), hotkey listening,
pointer control and screen search are ports; the X11 display and the
vision template matcher are the default platform adapters.

# Usage

	eng, err := shortcutter.New(".shortcutter", shortcutter.WithLogger(logger))
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	// Blocks until SIGINT/SIGTERM; SIGHUP reloads the macros.
	if err := eng.Run(context.Background()); err != nil {
		log.Fatal(err)
	}

Tests and dry runs inject the in-memory platform instead:

	eng, err := shortcutter.New("",
		shortcutter.WithStore(store),
		shortcutter.WithPlatform(keyboard, pointer, screen),
	)
*/
package shortcutter
