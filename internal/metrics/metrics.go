// Package metrics exposes Prometheus counters for the wire traffic xtrace
// decodes: requests, replies, errors, and events, labelled by opcode/event
// name and connection id.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the counters updated as packets are decoded.
type Collector struct {
	requests *prometheus.CounterVec
	replies  *prometheus.CounterVec
	errors   *prometheus.CounterVec
	events   *prometheus.CounterVec
}

// NewCollector registers a fresh set of counters against reg.
func NewCollector(reg *prometheus.Registry) *Collector {
	return &Collector{
		requests: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "xtrace_requests_decoded_total",
				Help: "Total number of X11 requests decoded, by name and connection.",
			},
			[]string{"name", "connection_id"},
		),
		replies: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "xtrace_replies_decoded_total",
				Help: "Total number of X11 replies decoded, by request name and connection.",
			},
			[]string{"name", "connection_id"},
		),
		errors: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "xtrace_errors_decoded_total",
				Help: "Total number of X11 errors decoded, by error name and connection.",
			},
			[]string{"name", "connection_id"},
		),
		events: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "xtrace_events_decoded_total",
				Help: "Total number of X11 events decoded, by event name and connection.",
			},
			[]string{"name", "connection_id"},
		),
	}
}

// ObserveRequest records one decoded request.
func (c *Collector) ObserveRequest(name, connectionID string) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(name, connectionID).Inc()
}

// ObserveReply records one decoded reply.
func (c *Collector) ObserveReply(name, connectionID string) {
	if c == nil {
		return
	}
	c.replies.WithLabelValues(name, connectionID).Inc()
}

// ObserveError records one decoded error.
func (c *Collector) ObserveError(name, connectionID string) {
	if c == nil {
		return
	}
	c.errors.WithLabelValues(name, connectionID).Inc()
}

// ObserveEvent records one decoded event.
func (c *Collector) ObserveEvent(name, connectionID string) {
	if c == nil {
		return
	}
	c.events.WithLabelValues(name, connectionID).Inc()
}
