package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// SOAPMetricsCollector handles SOAP endpoint request metrics
type SOAPMetricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	authFailures    *prometheus.CounterVec
	rateLimited     prometheus.Counter
}

// NewSOAPMetricsCollector creates a new SOAP metrics collector
func NewSOAPMetricsCollector() *SOAPMetricsCollector {
	return &SOAPMetricsCollector{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of SOAP requests by operation and status code",
			},
			[]string{"operation", "status_code"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "SOAP request duration distribution",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		authFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "auth_failures_total",
				Help:      "Rejected authentication attempts by scheme",
			},
			[]string{"scheme"},
		),

		rateLimited: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rate_limited_total",
				Help:      "Requests refused by the rate limiter",
			},
		),
	}
}

// Register registers all SOAP metrics with the Prometheus registry
func (c *SOAPMetricsCollector) Register() error {
	return registerAll(c.requestsTotal, c.requestDuration, c.authFailures, c.rateLimited)
}

// RecordRequest records a completed SOAP request
func (c *SOAPMetricsCollector) RecordRequest(operation string, statusCode int, duration float64) {
	if c == nil {
		return
	}
	c.requestsTotal.WithLabelValues(operation, strconv.Itoa(statusCode)).Inc()
	c.requestDuration.WithLabelValues(operation).Observe(duration)
}

// RecordAuthFailure records a rejected Authorization header
func (c *SOAPMetricsCollector) RecordAuthFailure(scheme string) {
	if c == nil {
		return
	}
	c.authFailures.WithLabelValues(scheme).Inc()
}

// RecordRateLimited records a request refused by the limiter
func (c *SOAPMetricsCollector) RecordRateLimited() {
	if c == nil {
		return
	}
	c.rateLimited.Inc()
}

// RegisterTokenGauge exposes the live token count
func RegisterTokenGauge(count func() int) error {
	return registerAll(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "active_tokens",
			Help:      "Bearer tokens currently held in the token store",
		},
		func() float64 { return float64(count()) },
	))
}
