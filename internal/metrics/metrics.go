package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for Agora
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   prometheus.CounterVec
	CacheMissesTotal prometheus.CounterVec

	// Business Metrics
	EventJoinsTotal      prometheus.CounterVec
	QRVerificationsTotal prometheus.CounterVec
	EventsExpiredTotal   prometheus.Counter
	LedgerQueueDepth     prometheus.Gauge
	JobDuration          prometheus.HistogramVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agora_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agora_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "agora_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agora_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agora_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		EventJoinsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agora_event_joins_total",
				Help: "Join attempts by outcome (joined, full, already_joined, rejected)",
			},
			[]string{"result"},
		),
		QRVerificationsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agora_qr_verifications_total",
				Help: "Attendance verification attempts by outcome",
			},
			[]string{"result"},
		),
		EventsExpiredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "agora_events_expired_total",
				Help: "Events flipped inactive by the expiry sweep",
			},
		),
		LedgerQueueDepth: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "agora_ledger_queue_depth",
				Help: "Pending entries on the attendance ledger stream",
			},
		),
		JobDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agora_job_duration_seconds",
				Help:    "Background job execution time in seconds",
				Buckets: []float64{0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
			},
			[]string{"job_name"},
		),
	}
}
