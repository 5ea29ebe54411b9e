package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all the prometheus metrics for the application
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorTotal          *prometheus.CounterVec
	llmRequestTotal     *prometheus.CounterVec
	llmRequestDuration  *prometheus.HistogramVec
	documentsIngested   *prometheus.CounterVec
	surveyResponses     prometheus.Counter
	jobProcessedTotal   *prometheus.CounterVec
}

// NewMetrics creates and registers the application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		errorTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_total",
				Help:      "Total number of errors",
			},
			[]string{"type"},
		),
		llmRequestTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_requests_total",
				Help:      "Total number of completion-API requests",
			},
			[]string{"operation", "status"},
		),
		llmRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_request_duration_seconds",
				Help:      "Duration of completion-API requests in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"operation"},
		),
		documentsIngested: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_ingested_total",
				Help:      "Total number of ingested documents",
			},
			[]string{"status"},
		),
		surveyResponses: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "survey_responses_total",
				Help:      "Total number of submitted survey responses",
			},
		),
		jobProcessedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "jobs_processed_total",
				Help:      "Total number of processed background jobs",
			},
			[]string{"type", "status"},
		),
	}
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordError records an application error
func (m *Metrics) RecordError(errType string) {
	if m == nil {
		return
	}
	m.errorTotal.WithLabelValues(errType).Inc()
}

// RecordLLMRequest records a completion-API call
func (m *Metrics) RecordLLMRequest(operation, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.llmRequestTotal.WithLabelValues(operation, status).Inc()
	m.llmRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordDocumentIngested records a document ingestion outcome
func (m *Metrics) RecordDocumentIngested(status string) {
	if m == nil {
		return
	}
	m.documentsIngested.WithLabelValues(status).Inc()
}

// RecordSurveyResponse records a submitted survey response
func (m *Metrics) RecordSurveyResponse() {
	if m == nil {
		return
	}
	m.surveyResponses.Inc()
}

// RecordJobProcessed records a processed background job
func (m *Metrics) RecordJobProcessed(jobType, status string) {
	if m == nil {
		return
	}
	m.jobProcessedTotal.WithLabelValues(jobType, status).Inc()
}
