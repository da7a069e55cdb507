// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the shard AI sidecar.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// RequestsTotal counts all HTTP requests by method, path, and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shardai_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "path", "status"},
	)

	// RequestDuration records HTTP request duration in seconds by method and path.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shardai_request_duration_seconds",
			Help:    "Request duration",
			Buckets: LLMBuckets,
		},
		[]string{"method", "path"},
	)

	// UpstreamRequestsTotal counts calls to the OpenAI API by endpoint and outcome.
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shardai_openai_requests_total",
			Help: "OpenAI API calls",
		},
		[]string{"endpoint", "outcome"},
	)

	// UpstreamRequestDuration records OpenAI API call latency in seconds by endpoint.
	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shardai_openai_request_duration_seconds",
			Help:    "OpenAI API call latency",
			Buckets: LLMBuckets,
		},
		[]string{"endpoint"},
	)

	// PromptsFlagged counts prompts rejected by moderation.
	PromptsFlagged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shardai_prompts_flagged_total",
			Help: "Prompts flagged by moderation",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		UpstreamRequestsTotal,
		UpstreamRequestDuration,
		PromptsFlagged,
	)
}

// RecordUpstreamRequest records one OpenAI API call. The outcome label is
// "success" for a nil error and "error" otherwise.
func RecordUpstreamRequest(endpoint string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordPromptFlagged counts one prompt rejected by moderation.
func RecordPromptFlagged() {
	PromptsFlagged.Inc()
}
