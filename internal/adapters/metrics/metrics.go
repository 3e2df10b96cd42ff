// Package metrics implements the Metrics port with Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/bundl/internal/core/domain"
)

const namespace = "bundl"

var latencyBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// Recorder holds the Prometheus collectors of one process.
// Each Recorder owns its registry so tests can build as many as they need.
type Recorder struct {
	registry *prometheus.Registry

	compilesTotal   *prometheus.CounterVec
	compileDuration prometheus.Histogram

	loadsTotal *prometheus.CounterVec

	fetchesTotal  *prometheus.CounterVec
	fetchDuration prometheus.Histogram

	executionsTotal   *prometheus.CounterVec
	executionDuration prometheus.Histogram

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// New creates a Recorder and registers its collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		compilesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compiles_total",
				Help:      "Total number of compilations by result",
			},
			[]string{"result"},
		),
		compileDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compile_duration_seconds",
				Help:      "Compilation latency in seconds",
				Buckets:   latencyBuckets,
			},
		),
		loadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "module_loads_total",
				Help:      "Total number of module loads by source",
			},
			[]string{"source"},
		),
		fetchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "registry_fetches_total",
				Help:      "Total number of registry requests by status code",
			},
			[]string{"status"},
		),
		fetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "registry_fetch_duration_seconds",
				Help:      "Registry request latency in seconds",
				Buckets:   latencyBuckets,
			},
		),
		executionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "executions_total",
				Help:      "Total number of sandboxed script executions by result",
			},
			[]string{"result"},
		),
		executionDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "execution_duration_seconds",
				Help:      "Sandboxed script execution latency in seconds",
				Buckets:   latencyBuckets,
			},
		),
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds",
				Buckets:   latencyBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// ObserveCompile records one compilation.
func (r *Recorder) ObserveCompile(ok bool, elapsed time.Duration) {
	r.compilesTotal.WithLabelValues(result(ok)).Inc()
	r.compileDuration.Observe(elapsed.Seconds())
}

// ObserveLoad records where a module load was served from.
func (r *Recorder) ObserveLoad(source domain.LoadSource) {
	r.loadsTotal.WithLabelValues(string(source)).Inc()
}

// ObserveFetch records one registry request attempt.
func (r *Recorder) ObserveFetch(status string, elapsed time.Duration) {
	r.fetchesTotal.WithLabelValues(status).Inc()
	r.fetchDuration.Observe(elapsed.Seconds())
}

// ObserveExecute records one sandboxed execution.
func (r *Recorder) ObserveExecute(ok bool, elapsed time.Duration) {
	r.executionsTotal.WithLabelValues(result(ok)).Inc()
	r.executionDuration.Observe(elapsed.Seconds())
}

// Middleware returns a Fiber middleware that collects HTTP metrics.
func (r *Recorder) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		path := c.Route().Path
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Response().StatusCode())

		r.httpRequestsTotal.WithLabelValues(c.Method(), path, status).Inc()
		r.httpRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())
		return err
	}
}

// Handler returns a Fiber handler that exposes the registry.
func (r *Recorder) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{}))
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
