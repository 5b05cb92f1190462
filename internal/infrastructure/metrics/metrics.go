package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Commerce API metrics
var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commerce",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "commerce",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	ModelCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commerce",
			Subsystem: "assistant",
			Name:      "model_calls_total",
			Help:      "Total model gateway calls by outcome",
		},
		[]string{"model", "outcome"},
	)

	ModelAttempts = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "commerce",
			Subsystem: "assistant",
			Name:      "model_call_attempts",
			Help:      "Provider attempts per model gateway call",
			Buckets:   []float64{1, 2, 3, 4, 5},
		},
		[]string{"model"},
	)

	ModelDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "commerce",
			Subsystem: "assistant",
			Name:      "model_call_duration_seconds",
			Help:      "Model gateway call duration in seconds, retries included",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"model"},
	)

	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commerce",
			Subsystem: "assistant",
			Name:      "tool_calls_total",
			Help:      "Total tool executions by outcome",
		},
		[]string{"tool_name", "outcome"},
	)

	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "commerce",
			Subsystem: "assistant",
			Name:      "tool_duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"tool_name"},
	)

	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commerce",
			Subsystem: "assistant",
			Name:      "turns_total",
			Help:      "Total processed messages by outcome",
		},
		[]string{"outcome"},
	)

	TurnIterations = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "commerce",
			Subsystem: "assistant",
			Name:      "turn_iterations",
			Help:      "Model iterations per processed message",
			Buckets:   []float64{1, 2, 3, 4, 5, 8},
		},
	)

	TurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "commerce",
			Subsystem: "assistant",
			Name:      "turn_duration_seconds",
			Help:      "End to end duration of a processed message",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
	)
)

// RecordRequest records an HTTP request
func RecordRequest(method, endpoint string, status int, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, endpoint).Observe(durationSec)
}

// Recorder forwards assistant observations to the collectors above.
type Recorder struct{}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (*Recorder) RecordModelCall(model, outcome string, attempts int, durationSec float64) {
	ModelCallsTotal.WithLabelValues(model, outcome).Inc()
	if attempts > 0 {
		ModelAttempts.WithLabelValues(model).Observe(float64(attempts))
	}
	ModelDuration.WithLabelValues(model).Observe(durationSec)
}

func (*Recorder) RecordToolCall(toolName, outcome string, durationSec float64) {
	ToolCallsTotal.WithLabelValues(toolName, outcome).Inc()
	ToolDuration.WithLabelValues(toolName).Observe(durationSec)
}

func (*Recorder) RecordTurn(outcome string, iterations int, durationSec float64) {
	TurnsTotal.WithLabelValues(outcome).Inc()
	TurnIterations.Observe(float64(iterations))
	TurnDuration.Observe(durationSec)
}
