package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// WebhookMetrics tracks calls to the external write endpoints.
type WebhookMetrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewWebhookMetrics registers webhook call metrics on reg. A nil registerer yields a no-op recorder.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	if reg == nil {
		return &WebhookMetrics{}
	}
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "webhook_calls_total",
		Help:      "Webhook calls by endpoint kind, method and outcome.",
	}, []string{"endpoint", "method", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "webhook_duration_seconds",
		Help:      "Latency of webhook calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method"})
	reg.MustRegister(calls, duration)
	return &WebhookMetrics{calls: calls, duration: duration}
}

// Observe records a single webhook round trip.
func (w *WebhookMetrics) Observe(endpoint, method, outcome string, elapsed time.Duration) {
	if w == nil || w.calls == nil {
		return
	}
	endpoint = normalizeLabel(endpoint)
	w.calls.WithLabelValues(endpoint, method, normalizeLabel(outcome)).Inc()
	w.duration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}
