/*
Package observability exposes Prometheus metrics for the shortcutter engine.

Metrics plugs into the engine through lifecycle hooks and a status indicator,
so neither the executor nor the runner depends on Prometheus directly.

	metrics := observability.NewMetrics()
	ctrl := runner.New(store, listener, pointer, locator,
		runner.WithHooks(metrics.Hooks()),
		runner.WithIndicator(metrics.Indicator()),
	)
	http.Handle("/metrics", metrics.Handler())
*/
package observability
