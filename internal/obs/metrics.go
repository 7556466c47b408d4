package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tinyserver"

// Metrics holds the server's Prometheus collectors.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	connections    prometheus.Counter
	requests       *prometheus.CounterVec
	parseErrors    *prometheus.CounterVec
	ioErrors       *prometheus.CounterVec
	handleDuration prometheus.Histogram
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		connections: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "connections_total",
			Help:      "Total number of accepted connections",
		}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "requests_total",
			Help:      "Total number of successfully parsed requests",
		}, []string{"method"}),
		parseErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "parse_errors_total",
			Help:      "Total number of rejected request lines by reason",
		}, []string{"kind"}),
		ioErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "io_errors_total",
			Help:      "Total number of accept, read and write failures",
		}, []string{"op"}),
		handleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "server",
			Name:      "handle_duration_seconds",
			Help:      "Time from parse to response written",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
	}
}

func (m *Metrics) Connection() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

func (m *Metrics) Request(method string) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method).Inc()
}

func (m *Metrics) ParseError(kind string) {
	if m == nil {
		return
	}
	m.parseErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) IOError(op string) {
	if m == nil {
		return
	}
	m.ioErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) Handled(start time.Time) {
	if m == nil {
		return
	}
	m.handleDuration.Observe(time.Since(start).Seconds())
}

// RequestsTotal exposes the request counter for one method.
func (m *Metrics) RequestsTotal(method string) prometheus.Counter {
	return m.requests.WithLabelValues(method)
}

// ParseErrorsTotal exposes the parse error counter for one kind.
func (m *Metrics) ParseErrorsTotal(kind string) prometheus.Counter {
	return m.parseErrors.WithLabelValues(kind)
}
