// Package http exposes a runner over HTTP: status, start/stop/reload,
// programmatic triggers, a server-sent event stream of runs and, optionally,
// Prometheus metrics.
package http
