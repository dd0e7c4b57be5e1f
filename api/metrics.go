package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the API's Prometheus collectors on a private registry, so
// several handlers (tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	hospitals    prometheus.Gauge
	admissions   prometheus.Counter
	discharges   prometheus.Counter
	suggestions  prometheus.Counter
	planRuns     *prometheus.CounterVec
	planDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		hospitals: f.NewGauge(prometheus.GaugeOpts{
			Name: "bed_engine_hospitals",
			Help: "Hospitals currently loaded",
		}),
		admissions: f.NewCounter(prometheus.CounterOpts{
			Name: "bed_engine_admissions_total",
			Help: "Patients admitted into live hospitals",
		}),
		discharges: f.NewCounter(prometheus.CounterOpts{
			Name: "bed_engine_discharges_total",
			Help: "Patients discharged from live hospitals",
		}),
		suggestions: f.NewCounter(prometheus.CounterOpts{
			Name: "bed_engine_suggestion_requests_total",
			Help: "Greedy bed suggestion requests served",
		}),
		planRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bed_engine_plan_runs_total",
			Help: "Tree search runs by whether the best action was applied",
		}, []string{"applied"}),
		planDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "bed_engine_plan_duration_seconds",
			Help:    "Wall time of tree search runs",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
