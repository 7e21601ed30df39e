// Package metrics collects and exposes Prometheus metrics for the
// service.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector gathers HTTP and domain counters. Handlers record domain
// events through it; the middleware records per-request data.
type Collector struct {
	requestsTotal  *prometheus.CounterVec
	requestLatency prometheus.Histogram

	groupsCreated prometheus.Counter
	groupsDeleted prometheus.Counter
	joins         prometheus.Counter
	leaves        prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scheduler_http_requests_total",
			Help: "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scheduler_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		groupsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_groups_created_total",
			Help: "Study groups created.",
		}),
		groupsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_groups_deleted_total",
			Help: "Study groups deleted.",
		}),
		joins: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_joins_total",
			Help: "Successful group joins.",
		}),
		leaves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scheduler_leaves_total",
			Help: "Successful group leaves.",
		}),
	}

	reg.MustRegister(
		c.requestsTotal,
		c.requestLatency,
		c.groupsCreated,
		c.groupsDeleted,
		c.joins,
		c.leaves,
	)
	return c
}

// RecordRequest records one handled HTTP request.
func (c *Collector) RecordRequest(route, method, status string, d time.Duration) {
	c.requestsTotal.WithLabelValues(route, method, status).Inc()
	c.requestLatency.Observe(d.Seconds())
}

// RecordGroupCreated increments the group creation counter.
func (c *Collector) RecordGroupCreated() { c.groupsCreated.Inc() }

// RecordGroupDeleted increments the group deletion counter.
func (c *Collector) RecordGroupDeleted() { c.groupsDeleted.Inc() }

// RecordJoin increments the join counter.
func (c *Collector) RecordJoin() { c.joins.Inc() }

// RecordLeave increments the leave counter.
func (c *Collector) RecordLeave() { c.leaves.Inc() }

// Handler returns the HTTP handler Prometheus scrapes.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
