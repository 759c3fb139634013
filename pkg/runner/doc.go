/*
Package runner implements the lifecycle of the shortcutter engine.

A Controller owns at most one live Dispatcher. Start loads the current macro
snapshot from the store, builds the dispatch table and registers the hotkeys;
Stop cancels every in-flight macro and deregisters them. Both are no-ops when
the controller is already in the requested state, and every transition is
reported to the configured status indicators.

# Usage

	ctrl := runner.New(store, listener, pointer, locator,
		runner.WithLogger(logger),
		runner.WithIndicator(runner.LogIndicator(logger)),
	)

	// Blocks until SIGINT/SIGTERM; SIGHUP reloads the macros.
	if err := ctrl.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
