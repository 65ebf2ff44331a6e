package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	adminRequestsTotal      *prometheus.CounterVec
	adminLatencySeconds     *prometheus.HistogramVec
	adminErrorsTotal        *prometheus.CounterVec
	reviewDecisionsTotal    *prometheus.CounterVec
	bulkReviewRowsTotal     *prometheus.CounterVec
	notificationsPublished  *prometheus.CounterVec
	emailsTotal             *prometheus.CounterVec
	sseClientsActive        prometheus.Gauge
	uploadRequestsTotal     *prometheus.CounterVec
	uploadRejectedTotal     *prometheus.CounterVec
	uploadLatencySeconds    prometheus.Histogram
	activityEmitFailures    prometheus.Counter
	dispatchQueueDepthGauge prometheus.Gauge
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		adminRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_requests_total",
			Help: "Total number of admin API requests served.",
		}, []string{"method", "route", "status"})

		adminLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admin_latency_seconds",
			Help:    "Latency distribution for admin API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		adminErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admin_errors_total",
			Help: "Total number of error responses returned by admin endpoints.",
		}, []string{"method", "route", "status"})

		reviewDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "review_decisions_total",
			Help: "Single application decisions committed, by resulting status.",
		}, []string{"status"})

		bulkReviewRowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bulk_review_rows_total",
			Help: "Applications updated by bulk decisions, by resulting status.",
		}, []string{"status"})

		notificationsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "notifications_published_total",
			Help: "In-app notifications delivered to subscribers, by type.",
		}, []string{"type"})

		emailsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "emails_total",
			Help: "Outbound email attempts, by outcome.",
		}, []string{"status"})

		sseClientsActive = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "sse_clients_active",
			Help: "Number of connected notification stream clients.",
		})

		uploadRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upload_requests_total",
			Help: "Total number of documents stored, by detected type.",
		}, []string{"type"})

		uploadRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "upload_rejected_total",
			Help: "Document uploads rejected, by reason.",
		}, []string{"reason"})

		uploadLatencySeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "upload_latency_seconds",
			Help:    "Time spent storing uploaded documents.",
			Buckets: prometheus.DefBuckets,
		})

		activityEmitFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "activity_emit_failures_total",
			Help: "Activity log entries that could not be persisted or were dropped.",
		})

		dispatchQueueDepthGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "notification_dispatch_queue_depth",
			Help: "Status change events waiting for the notification workers.",
		})

		prometheus.MustRegister(
			adminRequestsTotal,
			adminLatencySeconds,
			adminErrorsTotal,
			reviewDecisionsTotal,
			bulkReviewRowsTotal,
			notificationsPublished,
			emailsTotal,
			sseClientsActive,
			uploadRequestsTotal,
			uploadRejectedTotal,
			uploadLatencySeconds,
			activityEmitFailures,
			dispatchQueueDepthGauge,
		)
	})
}

// AdminRequests exposes the counter for admin requests.
func AdminRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return adminRequestsTotal
}

// AdminLatency exposes the latency histogram for admin requests.
func AdminLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return adminLatencySeconds
}

// AdminErrors exposes the counter for admin error responses.
func AdminErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return adminErrorsTotal
}

// ReviewDecisions counts committed single decisions.
func ReviewDecisions() *prometheus.CounterVec {
	RegisterMetrics()
	return reviewDecisionsTotal
}

// BulkReviewRows counts rows changed by bulk decisions.
func BulkReviewRows() *prometheus.CounterVec {
	RegisterMetrics()
	return bulkReviewRowsTotal
}

// NotificationsPublishedTotal counts notifications pushed to live subscribers.
func NotificationsPublishedTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationsPublished
}

// EmailsTotal counts email attempts by outcome.
func EmailsTotal() *prometheus.CounterVec {
	RegisterMetrics()
	return emailsTotal
}

// SSEClientsActive tracks connected stream clients.
func SSEClientsActive() prometheus.Gauge {
	RegisterMetrics()
	return sseClientsActive
}

// UploadRequests counts stored uploads.
func UploadRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRequestsTotal
}

// UploadRejected counts rejected uploads.
func UploadRejected() *prometheus.CounterVec {
	RegisterMetrics()
	return uploadRejectedTotal
}

// UploadLatency observes storage latency.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatencySeconds
}

// ActivityEmitFailures counts activity entries lost by the emitter.
func ActivityEmitFailures() prometheus.Counter {
	RegisterMetrics()
	return activityEmitFailures
}

// DispatchQueueDepth reports pending notification jobs.
func DispatchQueueDepth() prometheus.Gauge {
	RegisterMetrics()
	return dispatchQueueDepthGauge
}
