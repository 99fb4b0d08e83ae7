package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Query metrics
	QueriesTotal         *prometheus.CounterVec
	QueryDurationSeconds *prometheus.HistogramVec

	// Extraction metrics
	ExtractionsTotal   *prometheus.CounterVec
	LLMCallsTotal      *prometheus.CounterVec
	LLMDurationSeconds *prometheus.HistogramVec

	// Webhook metrics
	WebhookDurationSeconds *prometheus.HistogramVec
	WebhookRequestsTotal   *prometheus.CounterVec

	// HTTP metrics
	HTTPErrorsTotal *prometheus.CounterVec

	// Rate limiter metrics
	RateLimiterDropped *prometheus.CounterVec

	// Dataset metrics
	RecordsLoaded prometheus.Gauge
	SeedRowsTotal *prometheus.CounterVec
}

// New creates a new Metrics instance with all metrics registered
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		QueriesTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "merit_queries_total",
				Help: "Total number of answered queries by outcome and transport",
			},
			[]string{"outcome", "transport"}, // outcome: single, ambiguous, empty, need_*, list, rejected
		),

		QueryDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "merit_query_duration_seconds",
				Help:    "End-to-end query resolution duration in seconds",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"transport"},
		),

		ExtractionsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "merit_extractions_total",
				Help: "Primary extraction attempts by result and reason",
			},
			[]string{"status", "reason"}, // status: ok, unavailable
		),

		LLMCallsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "merit_llm_calls_total",
				Help: "Language model calls by provider and status",
			},
			[]string{"provider", "status"}, // status: success, error
		),

		LLMDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "merit_llm_duration_seconds",
				Help:    "Language model call duration in seconds by provider",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"provider"},
		),

		WebhookDurationSeconds: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "merit_webhook_duration_seconds",
				Help:    "Webhook processing duration in seconds by event type",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"event_type"},
		),

		WebhookRequestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "merit_webhook_requests_total",
				Help: "Total number of webhook events by event type and status",
			},
			[]string{"event_type", "status"},
		),

		HTTPErrorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "merit_http_errors_total",
				Help: "Total HTTP errors by type and route",
			},
			[]string{"error_type", "route"}, // error_type: bad_request, invalid_signature, unauthorized
		),

		RateLimiterDropped: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "merit_rate_limiter_dropped_total",
				Help: "Total number of requests dropped or degraded by a rate limiter",
			},
			[]string{"limiter_type"}, // limiter_type: client, llm
		),

		RecordsLoaded: promauto.With(registry).NewGauge(
			prometheus.GaugeOpts{
				Name: "merit_records_loaded",
				Help: "Number of merit records held in memory",
			},
		),

		SeedRowsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "merit_seed_rows_total",
				Help: "Rows inserted from seed sources",
			},
			[]string{"source"}, // source: file, r2
		),
	}

	return m
}

// RecordQuery records one answered query
func (m *Metrics) RecordQuery(outcome, transport string, duration float64) {
	m.QueriesTotal.WithLabelValues(outcome, transport).Inc()
	m.QueryDurationSeconds.WithLabelValues(transport).Observe(duration)
}

// RecordExtraction records the result of a primary extraction attempt
func (m *Metrics) RecordExtraction(status, reason string) {
	m.ExtractionsTotal.WithLabelValues(status, reason).Inc()
}

// RecordLLMCall records a single language model call
func (m *Metrics) RecordLLMCall(provider, status string, duration float64) {
	m.LLMCallsTotal.WithLabelValues(provider, status).Inc()
	m.LLMDurationSeconds.WithLabelValues(provider).Observe(duration)
}

// RecordWebhook records a webhook event
func (m *Metrics) RecordWebhook(eventType, status string, duration float64) {
	m.WebhookRequestsTotal.WithLabelValues(eventType, status).Inc()
	m.WebhookDurationSeconds.WithLabelValues(eventType).Observe(duration)
}

// RecordHTTPError records HTTP error metrics
func (m *Metrics) RecordHTTPError(errorType, route string) {
	m.HTTPErrorsTotal.WithLabelValues(errorType, route).Inc()
}

// RecordRateLimiterDrop records a request dropped by rate limiter
func (m *Metrics) RecordRateLimiterDrop(limiterType string) {
	m.RateLimiterDropped.WithLabelValues(limiterType).Inc()
}

// SetRecordsLoaded sets the in-memory record count
func (m *Metrics) SetRecordsLoaded(n int) {
	m.RecordsLoaded.Set(float64(n))
}

// RecordSeedRows records rows inserted from a seed source
func (m *Metrics) RecordSeedRows(source string, n int) {
	m.SeedRowsTotal.WithLabelValues(source).Add(float64(n))
}
