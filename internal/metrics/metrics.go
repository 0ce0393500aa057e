package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector defines the interface for metrics collection
type Collector interface {
	// Session metrics
	SessionConnected(kind string)
	SessionConnectFailed(kind string)
	SessionDisconnected(kind string)

	// Stream metrics
	StreamChanged(kind, event string)
	MetadataError(kind string)
	SubscriptionsChanged(kind string, delta int)

	// Signaling metrics
	SignalSent(kind string)
	SignalFailed(kind string)

	// Handler returns an HTTP handler for metrics endpoint
	Handler() http.Handler
}

// PrometheusCollector implements the Collector interface using Prometheus
type PrometheusCollector struct {
	registry *prometheus.Registry

	activeSessions  *prometheus.GaugeVec
	connects        *prometheus.CounterVec
	connectFailures *prometheus.CounterVec
	disconnects     *prometheus.CounterVec

	streamEvents        *prometheus.CounterVec
	metadataErrors      *prometheus.CounterVec
	activeSubscriptions *prometheus.GaugeVec

	signalsSent   *prometheus.CounterVec
	signalsFailed *prometheus.CounterVec
}

// NewPrometheusCollector registers every metric on its own registry so
// several collectors can coexist in one process.
func NewPrometheusCollector() *PrometheusCollector {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &PrometheusCollector{
		registry: reg,

		activeSessions: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stagecast_active_sessions",
			Help: "Number of connected provider sessions",
		}, []string{"kind"}),
		connects: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stagecast_session_connects_total",
			Help: "Total number of successful session connects",
		}, []string{"kind"}),
		connectFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stagecast_session_connect_failures_total",
			Help: "Total number of rejected session connects",
		}, []string{"kind"}),
		disconnects: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stagecast_session_disconnects_total",
			Help: "Total number of session disconnects",
		}, []string{"kind"}),

		streamEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stagecast_stream_events_total",
			Help: "Total number of stream created/destroyed events",
		}, []string{"kind", "event"}),
		metadataErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stagecast_metadata_errors_total",
			Help: "Total number of streams with unreadable role metadata",
		}, []string{"kind"}),
		activeSubscriptions: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "stagecast_active_subscriptions",
			Help: "Number of active stream subscriptions",
		}, []string{"kind"}),

		signalsSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stagecast_signals_sent_total",
			Help: "Total number of signals sent",
		}, []string{"kind"}),
		signalsFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stagecast_signals_failed_total",
			Help: "Total number of signals that could not be sent",
		}, []string{"kind"}),
	}
}

func (c *PrometheusCollector) SessionConnected(kind string) {
	c.connects.WithLabelValues(kind).Inc()
	c.activeSessions.WithLabelValues(kind).Inc()
}

func (c *PrometheusCollector) SessionConnectFailed(kind string) {
	c.connectFailures.WithLabelValues(kind).Inc()
}

func (c *PrometheusCollector) SessionDisconnected(kind string) {
	c.disconnects.WithLabelValues(kind).Inc()
	c.activeSessions.WithLabelValues(kind).Dec()
}

func (c *PrometheusCollector) StreamChanged(kind, event string) {
	c.streamEvents.WithLabelValues(kind, event).Inc()
}

func (c *PrometheusCollector) MetadataError(kind string) {
	c.metadataErrors.WithLabelValues(kind).Inc()
}

func (c *PrometheusCollector) SubscriptionsChanged(kind string, delta int) {
	c.activeSubscriptions.WithLabelValues(kind).Add(float64(delta))
}

func (c *PrometheusCollector) SignalSent(kind string) {
	c.signalsSent.WithLabelValues(kind).Inc()
}

func (c *PrometheusCollector) SignalFailed(kind string) {
	c.signalsFailed.WithLabelValues(kind).Inc()
}

func (c *PrometheusCollector) Registry() *prometheus.Registry { return c.registry }

// Handler returns an HTTP handler for metrics endpoint
func (c *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Nop discards everything.
type Nop struct{}

func (Nop) SessionConnected(string)          {}
func (Nop) SessionConnectFailed(string)      {}
func (Nop) SessionDisconnected(string)       {}
func (Nop) StreamChanged(string, string)     {}
func (Nop) MetadataError(string)             {}
func (Nop) SubscriptionsChanged(string, int) {}
func (Nop) SignalSent(string)                {}
func (Nop) SignalFailed(string)              {}
func (Nop) Handler() http.Handler            { return http.NotFoundHandler() }

// OrNop returns c, or Nop when c is nil.
func OrNop(c Collector) Collector {
	if c == nil {
		return Nop{}
	}
	return c
}
