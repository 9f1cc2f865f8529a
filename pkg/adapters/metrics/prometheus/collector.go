package prometheus

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector records HTTP and analysis metrics using Prometheus
type Collector struct {
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
	httpInFlight       prometheus.Gauge
	analyses           *prometheus.CounterVec
	analysisDuration   prometheus.Histogram
	validationFailures *prometheus.CounterVec
	eventsPublished    *prometheus.CounterVec
}

// NewCollector creates a new Prometheus metrics collector registered with reg.
// A nil reg registers with the default Prometheus registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "analysis_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"method", "route"},
		),
		httpInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "analysis_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
		),
		analyses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_requests_total",
				Help: "Total number of analysis requests by outcome",
			},
			[]string{"outcome"},
		),
		analysisDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "analysis_duration_seconds",
				Help:    "Time spent producing insights in seconds",
				Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1},
			},
		),
		validationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_validation_failures_total",
				Help: "Total number of rejected request fields",
			},
			[]string{"field"},
		),
		eventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analysis_events_published_total",
				Help: "Total number of analysis events published by outcome",
			},
			[]string{"topic", "outcome"},
		),
	}
}

// RecordHTTPRequest records a served HTTP request
func (c *Collector) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncInFlight marks the start of a request
func (c *Collector) IncInFlight() {
	c.httpInFlight.Inc()
}

// DecInFlight marks the end of a request
func (c *Collector) DecInFlight() {
	c.httpInFlight.Dec()
}

// RecordAnalysis records an analysis outcome ("success" or "error")
func (c *Collector) RecordAnalysis(outcome string, duration time.Duration) {
	c.analyses.WithLabelValues(outcome).Inc()
	c.analysisDuration.Observe(duration.Seconds())
}

// RecordValidationFailure records a rejected request field
func (c *Collector) RecordValidationFailure(field string) {
	c.validationFailures.WithLabelValues(field).Inc()
}

// RecordEventPublished records an event publish attempt
func (c *Collector) RecordEventPublished(topic, outcome string) {
	c.eventsPublished.WithLabelValues(topic, outcome).Inc()
}
