package telemetry

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the router.
type Metrics struct {
	RequestTotal        *prometheus.CounterVec
	RequestDurationMs   *prometheus.HistogramVec
	TokensTotal         *prometheus.CounterVec
	UpstreamErrorsTotal *prometheus.CounterVec
	StreamFramesTotal   *prometheus.CounterVec
	RateLimitHitsTotal  prometheus.Counter
}

// NewMetrics creates all metrics and registers them with reg. The process
// passes prometheus.DefaultRegisterer; tests pass a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "router_request_total",
			Help: "Total number of chat completion requests handled.",
		}, []string{"model", "provider", "status", "stream"}),

		RequestDurationMs: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "router_request_duration_ms",
			Help:    "Request duration in milliseconds, including provider latency and, for streams, the whole stream.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		}, []string{"model", "provider"}),

		TokensTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "router_tokens_total",
			Help: "Total tokens reported by providers for unary requests.",
		}, []string{"model", "direction"}),

		UpstreamErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "router_upstream_errors_total",
			Help: "Provider responses with a non-success status.",
		}, []string{"provider", "status"}),

		StreamFramesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "router_stream_frames_total",
			Help: "Stream frames forwarded to clients.",
		}, []string{"provider"}),

		RateLimitHitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "router_rate_limit_hits_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}
}

// RecordRequest records metrics for a completed request.
func (m *Metrics) RecordRequest(labels RequestLabels) {
	m.RequestTotal.WithLabelValues(
		labels.Model, labels.Provider, labels.Status, strconv.FormatBool(labels.Stream),
	).Inc()

	m.RequestDurationMs.WithLabelValues(
		labels.Model, labels.Provider,
	).Observe(labels.DurationMs)

	if labels.PromptTokens > 0 {
		m.TokensTotal.WithLabelValues(labels.Model, "prompt").Add(float64(labels.PromptTokens))
	}
	if labels.CompletionTokens > 0 {
		m.TokensTotal.WithLabelValues(labels.Model, "completion").Add(float64(labels.CompletionTokens))
	}
}

func (m *Metrics) RecordUpstreamError(provider string, statusCode int) {
	m.UpstreamErrorsTotal.WithLabelValues(provider, strconv.Itoa(statusCode)).Inc()
}

func (m *Metrics) RecordStreamFrame(provider string) {
	m.StreamFramesTotal.WithLabelValues(provider).Inc()
}

func (m *Metrics) RecordRateLimitHit() {
	m.RateLimitHitsTotal.Inc()
}

// RequestLabels holds the label values for recording a request.
type RequestLabels struct {
	Model            string
	Provider         string
	Status           string
	Stream           bool
	DurationMs       float64
	PromptTokens     int
	CompletionTokens int
}
