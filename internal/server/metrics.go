package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ccollicutt/chatlens/pkg/parser"
)

// Metrics holds the collectors exported on /metrics. Each server owns its
// registry so tests can run several servers side by side.
type Metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	messagesParsed *prometheus.CounterVec
	recordsDropped *prometheus.CounterVec
	parseDuration  prometheus.Histogram
}

// NewMetrics creates and registers the server collectors.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatlens",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint and status code",
	}, []string{"endpoint", "code"})
	m.messagesParsed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatlens",
		Name:      "messages_parsed_total",
		Help:      "Messages produced by the parser, by export format",
	}, []string{"format"})
	m.recordsDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatlens",
		Name:      "records_dropped_total",
		Help:      "Marker/body pairs discarded during parsing, by reason",
	}, []string{"reason"})
	m.parseDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "chatlens",
		Name:      "parse_duration_seconds",
		Help:      "Time spent decoding and parsing one upload",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	})

	m.registry.MustRegister(
		m.requests, m.messagesParsed, m.recordsDropped, m.parseDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeParse(format string, stats parser.Stats, seconds float64) {
	m.parseDuration.Observe(seconds)
	m.messagesParsed.WithLabelValues(format).Add(float64(stats.Records))
	m.recordsDropped.WithLabelValues("bad_timestamp").Add(float64(stats.BadTimestamps))
	m.recordsDropped.WithLabelValues("empty_message").Add(float64(stats.EmptyMessages))
}
