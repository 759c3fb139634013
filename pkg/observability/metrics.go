package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/shortcutter/pkg/domain"
	"github.com/aretw0/shortcutter/pkg/ports"
)

// Metrics holds the engine collectors on a dedicated registry.
type Metrics struct {
	registry *prometheus.Registry

	Runs         *prometheus.CounterVec
	Dropped      *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec
	StepFailures *prometheus.CounterVec
	InFlight     prometheus.Gauge
	RunnerUp     prometheus.Gauge
}

// NewMetrics creates and registers the engine collectors plus the Go runtime collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortcutter_runs_total",
				Help: "Total number of finished macro runs by terminal state and reason",
			},
			[]string{"macro", "state", "reason"},
		),
		Dropped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortcutter_triggers_dropped_total",
				Help: "Triggers ignored because the macro was already running",
			},
			[]string{"combo"},
		),
		StepDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shortcutter_step_duration_seconds",
				Help:    "Duration of macro steps",
				Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"action"},
		),
		StepFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shortcutter_step_failures_total",
				Help: "Steps that failed softly and were skipped",
			},
			[]string{"action"},
		),
		InFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shortcutter_runs_in_flight",
			Help: "Macro instances currently running",
		}),
		RunnerUp: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "shortcutter_runner_running",
			Help: "1 while the runner is Running, 0 while Stopped",
		}),
	}
	m.registry.MustRegister(
		m.Runs, m.Dropped, m.StepDuration, m.StepFailures, m.InFlight, m.RunnerUp,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			m.InFlight.Inc()
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			m.StepDuration.WithLabelValues(string(e.Action)).Observe(e.Duration.Seconds())
			if e.Err != nil {
				m.StepFailures.WithLabelValues(string(e.Action)).Inc()
			}
		},
		OnRunEnd: func(ctx context.Context, e *domain.EndEvent) {
			m.InFlight.Dec()
			m.Runs.WithLabelValues(e.Result.MacroName, string(e.Result.State), e.Result.Reason).Inc()
		},
		OnTriggerDropped: func(ctx context.Context, e *domain.RunEvent) {
			m.Dropped.WithLabelValues(string(e.Combo)).Inc()
		},
	}
}

// Indicator returns a status indicator driving the runner gauge.
func (m *Metrics) Indicator() ports.StatusIndicator {
	return ports.StatusFunc(func(ctx context.Context, status domain.RunnerStatus) {
		if status == domain.StatusRunning {
			m.RunnerUp.Set(1)
			return
		}
		m.RunnerUp.Set(0)
	})
}
