package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts routed messages by resolved intent
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okanassist_requests_total",
		Help: "Total routed requests by intent",
	}, []string{"intent"})

	// CreditsConsumed counts credits charged by operation type
	CreditsConsumed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okanassist_credits_consumed_total",
		Help: "Total credits consumed by operation type",
	}, []string{"operation"})

	// CreditDenials counts requests rejected for insufficient credits
	CreditDenials = promauto.NewCounter(prometheus.CounterOpts{
		Name: "okanassist_credit_denials_total",
		Help: "Requests rejected for insufficient credits",
	})

	// ExtractionFallbacks counts uses of the keyword fallback extractor
	ExtractionFallbacks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okanassist_extraction_fallbacks_total",
		Help: "Keyword fallback extractions by result kind",
	}, []string{"kind"})

	llmCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "okanassist_llm_call_duration_seconds",
		Help:    "LLM call latency by operation",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "status"})

	// SessionsActive tracks the current size of the session cache
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "okanassist_sessions_active",
		Help: "Entries currently held in the session cache",
	})
)

// ObserveLLMCall records latency and outcome for an upstream model call.
func ObserveLLMCall(op string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	llmCallDuration.WithLabelValues(op, status).Observe(d.Seconds())
}
