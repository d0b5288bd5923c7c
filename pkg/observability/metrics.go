package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/colorsort/pkg/domain"
)

// Metrics records run statistics in a dedicated Prometheus registry.
type Metrics struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	resets      prometheus.Counter
	checkpoints prometheus.Counter
	warnings    prometheus.Counter
	potential   prometheus.Gauge
	exchanges   prometheus.Gauge
	iterations  prometheus.Histogram
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "colorsort_runs_completed_total",
				Help: "Total number of finished runs by completion reason",
			},
			[]string{"reason", "forced"},
		),
		resets: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colorsort_resets_total",
			Help: "Total number of engine resets",
		}),
		checkpoints: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colorsort_checkpoints_total",
			Help: "Total number of periodic checkpoints",
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "colorsort_warnings_total",
			Help: "Total number of engine warnings",
		}),
		potential: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "colorsort_potential",
			Help: "Tokens not matching their holder's dominant color at the last observation",
		}),
		exchanges: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "colorsort_exchanges",
			Help: "Tokens delivered in the current run at the last observation",
		}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "colorsort_run_iterations",
			Help:    "Dispatched messages per finished run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
	m.registry.MustRegister(m.runs, m.resets, m.checkpoints, m.warnings, m.potential, m.exchanges, m.iterations)
	return m
}

// Registry exposes the underlying registry.
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
		OnIterationChecked: func(_ context.Context, e *domain.IterationEvent) {
			m.checkpoints.Inc()
			m.potential.Set(float64(e.Potential))
			m.exchanges.Set(float64(e.Exchanges))
		},
		OnCompleted: func(_ context.Context, e *domain.CompletionEvent) {
			forced := "false"
			if e.Forced {
				forced = "true"
			}
			m.runs.WithLabelValues(string(e.Reason), forced).Inc()
			m.potential.Set(float64(e.Potential))
			m.exchanges.Set(float64(e.Exchanges))
			m.iterations.Observe(float64(e.Iteration))
		},
		OnWarning: func(context.Context, *domain.WarningEvent) {
			m.warnings.Inc()
		},
		OnReset: func(context.Context, *domain.RunEvent) {
			m.resets.Inc()
			m.exchanges.Set(0)
		},
	}
}
