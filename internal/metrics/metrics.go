// Package metrics exposes Prometheus collectors for the API, the
// workspaces and the analyze jobs.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/mlops-microproject/review-workspace/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "review_workspace"

// Import results
const (
	ImportOK       = "ok"
	ImportRejected = "rejected"
)

// Prediction sources
const (
	SourceAnalyze   = "analyze"
	SourceWorkspace = "workspace"
	SourceJob       = "job"
)

// Metrics collectors on a private registry. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	workspaces      prometheus.Gauge
	evictions       prometheus.Counter
	imports         *prometheus.CounterVec
	predictions     *prometheus.CounterVec
	jobs            *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New registers every collector, plus the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		workspaces: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workspaces",
			Help:      "Workspaces currently held in memory.",
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workspace_evictions_total",
			Help:      "Workspaces removed by the idle sweep.",
		}),
		imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "JSON imports by result.",
		}, []string{"result"}),
		predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Predictions produced, by source and label.",
		}, []string{"source", "label"}),
		jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyze_jobs_total",
			Help:      "Analyze jobs by final status.",
		}, []string{"status"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.workspaces,
		m.evictions,
		m.imports,
		m.predictions,
		m.jobs,
		m.requests,
		m.requestDuration,
	)
	return m
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// SetWorkspaces sets the in-memory workspace gauge
func (m *Metrics) SetWorkspaces(n int) {
	if m == nil {
		return
	}
	m.workspaces.Set(float64(n))
}

// AddEvictions counts swept workspaces
func (m *Metrics) AddEvictions(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.evictions.Add(float64(n))
}

// ObserveImport counts one import attempt
func (m *Metrics) ObserveImport(result string) {
	if m == nil {
		return
	}
	m.imports.WithLabelValues(result).Inc()
}

// ObservePredictions counts predictions by label
func (m *Metrics) ObservePredictions(source string, preds []models.Prediction) {
	if m == nil {
		return
	}
	for _, p := range preds {
		m.predictions.WithLabelValues(source, p.Label).Inc()
	}
}

// ObserveJob counts a finished analyze job
func (m *Metrics) ObserveJob(status string) {
	if m == nil {
		return
	}
	m.jobs.WithLabelValues(status).Inc()
}

// ObserveRequest records one HTTP request
func (m *Metrics) ObserveRequest(method, route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
