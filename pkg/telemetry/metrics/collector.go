package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Namespace is the metric name prefix for all relay metrics.
const Namespace = "streampipe"

// Collector registers and records all Prometheus metrics for the relay
// path. A nil *Collector is valid and records nothing, so wiring metrics is
// optional for tests and embedders.
type Collector struct {
	registry *prometheus.Registry

	requestsTotal       *prometheus.CounterVec
	bytesRelayedTotal   *prometheus.CounterVec
	bytesDiscardedTotal *prometheus.CounterVec
	activeSessions      prometheus.Gauge
	upstreamOpenSeconds *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry, pre-registering
// all relay metrics plus the standard Go process collectors.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "requests_total",
				Help:      "Total number of relay requests by stream and outcome status.",
			},
			[]string{"stream", "status"},
		),

		bytesRelayedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "bytes_relayed_total",
				Help:      "Total payload bytes delivered to clients.",
			},
			[]string{"stream"},
		),

		bytesDiscardedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "bytes_discarded_total",
				Help:      "Total bytes dropped by transport-stream packet alignment truncation.",
			},
			[]string{"stream"},
		),

		activeSessions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "active_sessions",
				Help:      "Number of relay sessions currently streaming.",
			},
		),

		upstreamOpenSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "upstream_open_duration_seconds",
				Help:      "Time from request arrival to a committed upstream stream.",
				Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
			},
			[]string{"stream"},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.bytesRelayedTotal,
		c.bytesDiscardedTotal,
		c.activeSessions,
		c.upstreamOpenSeconds,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return c
}

// RecordRequest records one completed relay request. Status is the HTTP
// status class of the outcome ("200", "404", ...) or "disconnect" when the
// client went away mid-stream.
func (c *Collector) RecordRequest(stream, status string) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(stream, status).Inc()
}

// AddBytesRelayed records payload bytes delivered to a client.
func (c *Collector) AddBytesRelayed(stream string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.bytesRelayedTotal.WithLabelValues(stream).Add(float64(n))
}

// AddBytesDiscarded records bytes dropped by packet alignment truncation.
func (c *Collector) AddBytesDiscarded(stream string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.bytesDiscardedTotal.WithLabelValues(stream).Add(float64(n))
}

// SessionStarted increments the active session gauge.
func (c *Collector) SessionStarted() {
	if c == nil {
		return
	}
	c.activeSessions.Inc()
}

// SessionEnded decrements the active session gauge.
func (c *Collector) SessionEnded() {
	if c == nil {
		return
	}
	c.activeSessions.Dec()
}

// ObserveUpstreamOpen records how long opening the upstream stream took.
func (c *Collector) ObserveUpstreamOpen(stream string, d time.Duration) {
	if c == nil {
		return
	}
	c.upstreamOpenSeconds.WithLabelValues(stream).Observe(d.Seconds())
}
