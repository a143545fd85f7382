package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"yashubustudio/contextanalyzer/analyzer"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "context_analyzer_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "context_analyzer_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Analysis metrics
	analysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "context_analyzer_analyses_total",
			Help: "Total number of analyses by outcome",
		},
		[]string{"outcome"},
	)

	analysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "context_analyzer_analysis_duration_seconds",
			Help:    "Time spent in a single analysis",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)

	qualityScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "context_analyzer_quality_score",
			Help:    "Distribution of quality scores",
			Buckets: prometheus.LinearBuckets(0, 1, 11),
		},
	)

	missingTopics = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "context_analyzer_missing_topics",
			Help:    "Number of missing topics per analysis",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		},
	)

	embeddingFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "context_analyzer_embedding_failures_total",
			Help: "Embedding calls that failed and fell back to the penalty score",
		},
	)
)

// Recorder feeds analyzer observations into the package metrics.
type Recorder struct{}

var _ analyzer.Recorder = Recorder{}

// ObserveAnalysis implements analyzer.Recorder.
func (Recorder) ObserveAnalysis(outcome analyzer.Outcome, elapsed time.Duration, missing int, score float64) {
	analysesTotal.WithLabelValues(string(outcome)).Inc()
	analysisDuration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
	if outcome == analyzer.OutcomeEmptyPrompt {
		return
	}
	qualityScore.Observe(score)
	missingTopics.Observe(float64(missing))
}

// EmbeddingFailed implements analyzer.Recorder.
func (Recorder) EmbeddingFailed() {
	embeddingFailures.Inc()
}

// RecordHTTPRequest records an HTTP request
func RecordHTTPRequest(method, endpoint string, statusCode int, durationSeconds float64) {
	httpRequestsTotal.WithLabelValues(method, endpoint, statusClass(statusCode)).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(durationSeconds)
}

func statusClass(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	}
	return "unknown"
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
