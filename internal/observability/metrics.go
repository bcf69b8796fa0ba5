// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Stream metrics
	NotificationsReceived prometheus.Counter
	CreationEventsSeen    prometheus.Counter
	WSReconnects          *prometheus.CounterVec

	// Pipeline metrics
	PipelineOutcomes  *prometheus.CounterVec
	PipelineLatency   prometheus.Histogram
	PipelinesInFlight prometheus.Gauge
	OverflowDropped   prometheus.Counter
	PipelinePanics    prometheus.Counter
	ConfidenceScores  prometheus.Histogram

	// Lookup metrics
	LookupErrors      *prometheus.CounterVec
	RPCCallLatency    *prometheus.HistogramVec
	MarketCallLatency prometheus.Histogram
	ReputationCache   *prometheus.CounterVec

	// Delivery metrics
	AlertDeliveries *prometheus.CounterVec

	// Health metrics
	LastAlertSent prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "launch_alerts"
	}

	return &Metrics{
		NotificationsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "notifications_received_total",
			Help:      "Total number of log notifications received",
		}),
		CreationEventsSeen: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "creation_events_total",
			Help:      "Total number of notifications carrying a creation marker",
		}),
		WSReconnects: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stream",
			Name:      "ws_reconnects_total",
			Help:      "WebSocket reconnect attempts by status",
		}, []string{"status"}),

		PipelineOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "outcomes_total",
			Help:      "Pipeline instances by terminal stage",
		}, []string{"stage"}),
		PipelineLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "duration_seconds",
			Help:      "End-to-end duration of one pipeline instance",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		PipelinesInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "in_flight",
			Help:      "Pipeline instances currently running",
		}),
		OverflowDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "overflow_dropped_total",
			Help:      "Notifications dropped because every pipeline slot was busy",
		}),
		PipelinePanics: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "panics_total",
			Help:      "Pipeline instances that panicked and were recovered",
		}),
		ConfidenceScores: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "pipeline",
			Name:      "confidence_score",
			Help:      "Distribution of confidence scores",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),

		LookupErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "lookup_errors_total",
			Help:      "Failed external lookups by kind",
		}, []string{"lookup"}),
		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		MarketCallLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "market_call_latency_seconds",
			Help:      "Market-data API latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		ReputationCache: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "reputation_cache_total",
			Help:      "Creator balance cache lookups by result",
		}, []string{"result"}),

		AlertDeliveries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alert",
			Name:      "deliveries_total",
			Help:      "Alert deliveries by sink and status",
		}, []string{"sink", "status"}),

		LastAlertSent: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_alert_timestamp",
			Help:      "Unix timestamp of the last delivered alert",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordNotification increments the received notification counter.
func RecordNotification() {
	DefaultMetrics.NotificationsReceived.Inc()
}

// RecordCreationEvent increments the creation event counter.
func RecordCreationEvent() {
	DefaultMetrics.CreationEventsSeen.Inc()
}

// RecordWSReconnect records a reconnect attempt.
func RecordWSReconnect(status string) {
	DefaultMetrics.WSReconnects.WithLabelValues(status).Inc()
}

// RecordOutcome records the terminal stage of a pipeline instance.
func RecordOutcome(stage string, duration time.Duration) {
	DefaultMetrics.PipelineOutcomes.WithLabelValues(stage).Inc()
	DefaultMetrics.PipelineLatency.Observe(duration.Seconds())
}

// RecordScore records a computed confidence score.
func RecordScore(score int) {
	DefaultMetrics.ConfidenceScores.Observe(float64(score))
}

// IncInFlight marks a pipeline instance as started.
func IncInFlight() {
	DefaultMetrics.PipelinesInFlight.Inc()
}

// DecInFlight marks a pipeline instance as finished.
func DecInFlight() {
	DefaultMetrics.PipelinesInFlight.Dec()
}

// RecordOverflowDrop counts a notification dropped for lack of capacity.
func RecordOverflowDrop() {
	DefaultMetrics.OverflowDropped.Inc()
}

// RecordPanic counts a recovered pipeline panic.
func RecordPanic() {
	DefaultMetrics.PipelinePanics.Inc()
}

// RecordLookupError records a failed derivation, market or reputation lookup.
func RecordLookupError(lookup string) {
	DefaultMetrics.LookupErrors.WithLabelValues(lookup).Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordMarketLatency records market-data call latency.
func RecordMarketLatency(seconds float64) {
	DefaultMetrics.MarketCallLatency.Observe(seconds)
}

// RecordCacheResult records a reputation cache hit, miss or error.
func RecordCacheResult(result string) {
	DefaultMetrics.ReputationCache.WithLabelValues(result).Inc()
}

// RecordDelivery records an alert delivery attempt for one sink.
func RecordDelivery(sink string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	} else {
		DefaultMetrics.LastAlertSent.SetToCurrentTime()
	}
	DefaultMetrics.AlertDeliveries.WithLabelValues(sink, status).Inc()
}
