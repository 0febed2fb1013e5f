// Package metrics holds the Prometheus collectors for the analyzer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry groups the collectors used across the service.
type Registry struct {
	Analyses       *prometheus.CounterVec
	RenderDuration *prometheus.HistogramVec
	CacheHits      *prometheus.CounterVec
	CacheMisses    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Registry {
	r := &Registry{
		Analyses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gainplot_analyses_total",
				Help: "Analysis requests by outcome status",
			},
			[]string{"status"},
		),
		RenderDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gainplot_render_duration_seconds",
				Help:    "Time spent rendering a chart",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
			[]string{"format"},
		),
		CacheHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gainplot_chart_cache_hits_total",
				Help: "Chart requests served from the in-memory cache",
			},
			[]string{"format"},
		),
		CacheMisses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gainplot_chart_cache_misses_total",
				Help: "Chart requests that required rendering",
			},
			[]string{"format"},
		),
	}
	if reg != nil {
		reg.MustRegister(r.Analyses, r.RenderDuration, r.CacheHits, r.CacheMisses)
	}
	return r
}

// ObserveAnalysis counts one analysis outcome. A nil Registry is a no-op.
func (r *Registry) ObserveAnalysis(status string) {
	if r == nil {
		return
	}
	r.Analyses.WithLabelValues(status).Inc()
}

// ObserveRender records a render duration in seconds. A nil Registry is a no-op.
func (r *Registry) ObserveRender(format string, seconds float64) {
	if r == nil {
		return
	}
	r.RenderDuration.WithLabelValues(format).Observe(seconds)
}

// ObserveCache counts a chart cache lookup. A nil Registry is a no-op.
func (r *Registry) ObserveCache(format string, hit bool) {
	if r == nil {
		return
	}
	if hit {
		r.CacheHits.WithLabelValues(format).Inc()
		return
	}
	r.CacheMisses.WithLabelValues(format).Inc()
}
