// Package metrics exposes Prometheus collectors for route optimization.
//
// Every Collector owns its own registry so that tests and multiple servers
// in one process never collide on registration.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the optimizer and API metrics.
type Collector struct {
	registry *prometheus.Registry

	optimizations prometheus.Counter
	duration      prometheus.Histogram
	sweeps        prometheus.Histogram
	efficiency    prometheus.Gauge
	catalogTasks  prometheus.Gauge
	cache         *prometheus.CounterVec
	requests      *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on a fresh
// registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		optimizations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tarkovbuddy_optimizations_total",
			Help: "Total number of route optimizations run",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tarkovbuddy_optimize_duration_seconds",
			Help:    "Time spent computing a route",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
		sweeps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tarkovbuddy_route_sweeps",
			Help:    "Number of sweeps in a computed route",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100, 200},
		}),
		efficiency: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tarkovbuddy_route_efficiency",
			Help: "Tasks per sweep of the most recent route",
		}),
		catalogTasks: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tarkovbuddy_catalog_tasks",
			Help: "Number of tasks in the loaded catalog",
		}),
		cache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tarkovbuddy_result_cache_total",
			Help: "Route result cache lookups by outcome",
		}, []string{"result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tarkovbuddy_http_requests_total",
			Help: "HTTP requests by path and status code",
		}, []string{"path", "code"}),
	}

	c.registry.MustRegister(
		c.optimizations,
		c.duration,
		c.sweeps,
		c.efficiency,
		c.catalogTasks,
		c.cache,
		c.requests,
	)
	return c
}

// RecordOptimization records one optimizer run.
func (c *Collector) RecordOptimization(elapsed time.Duration, sweeps int, efficiency float64) {
	c.optimizations.Inc()
	c.duration.Observe(elapsed.Seconds())
	c.sweeps.Observe(float64(sweeps))
	c.efficiency.Set(efficiency)
}

// SetCatalogTasks records the size of the loaded catalog.
func (c *Collector) SetCatalogTasks(n int) {
	c.catalogTasks.Set(float64(n))
}

// RecordCacheHit records a result cache lookup.
func (c *Collector) RecordCacheHit(hit bool) {
	if hit {
		c.cache.WithLabelValues("hit").Inc()
		return
	}
	c.cache.WithLabelValues("miss").Inc()
}

// RecordRequest records one served HTTP request.
func (c *Collector) RecordRequest(path string, code int) {
	c.requests.WithLabelValues(path, strconv.Itoa(code)).Inc()
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
