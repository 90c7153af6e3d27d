// Package metrics provides Prometheus metrics for xsdgen
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for xsdgen
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Pipeline metrics
	SchemaParseTotal     *prometheus.CounterVec
	PayloadGenerateTotal *prometheus.CounterVec
	PayloadBytes         *prometheus.HistogramVec
	SchemaCacheHitsTotal prometheus.Counter
	SchemaCacheEvictions prometheus.Counter
}

// NewMetrics creates all collectors and registers them on reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xsdgen_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "xsdgen_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "xsdgen_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	m.SchemaParseTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xsdgen_schema_parse_total",
			Help: "Total number of schema parses",
		},
		[]string{"status"},
	)

	m.PayloadGenerateTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "xsdgen_payload_generate_total",
			Help: "Total number of payload generations",
		},
		[]string{"format", "status"},
	)

	m.PayloadBytes = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "xsdgen_payload_bytes",
			Help:    "Size of rendered payloads in bytes",
			Buckets: prometheus.ExponentialBuckets(64, 4, 8),
		},
		[]string{"format"},
	)

	m.SchemaCacheHitsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "xsdgen_schema_cache_hits_total",
			Help: "Total number of schema cache hits",
		},
	)

	m.SchemaCacheEvictions = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "xsdgen_schema_cache_evictions_total",
			Help: "Total number of schemas evicted from a full cache",
		},
	)

	return m
}

// RecordHTTPRequest records a completed HTTP request
func (m *Metrics) RecordHTTPRequest(route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordParse records a schema parse
func (m *Metrics) RecordParse(err error) {
	m.SchemaParseTotal.WithLabelValues(status(err)).Inc()
}

// RecordGenerate records a payload generation and its rendered size
func (m *Metrics) RecordGenerate(format string, size int, err error) {
	m.PayloadGenerateTotal.WithLabelValues(format, status(err)).Inc()
	if err == nil {
		m.PayloadBytes.WithLabelValues(format).Observe(float64(size))
	}
}

// CacheHit counts a schema cache hit
func (m *Metrics) CacheHit() {
	m.SchemaCacheHitsTotal.Inc()
}

// CacheEvict counts a schema evicted from a full cache
func (m *Metrics) CacheEvict() {
	m.SchemaCacheEvictions.Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
