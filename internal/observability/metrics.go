package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gorm.io/gorm"
)

var (
	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "parlor_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// EventsBroadcastTotal counts broadcast events by type.
	EventsBroadcastTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parlor_events_broadcast_total",
		Help: "Total number of events broadcast to live connections by type",
	}, []string{"event_type"})

	// WebSocketBackpressureDrops counts messages dropped because a client's
	// send buffer was full.
	WebSocketBackpressureDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parlor_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	})

	// WebSocketRateLimitDrops counts inbound chat messages silently dropped
	// by the per-connection sliding window.
	WebSocketRateLimitDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parlor_websocket_ratelimit_drops_total",
		Help: "Total number of inbound WebSocket messages dropped by rate limiting",
	})

	// RetentionRemovals counts chat messages removed by the retention sweeper.
	RetentionRemovals = promauto.NewCounter(prometheus.CounterOpts{
		Name: "parlor_chat_retention_removals_total",
		Help: "Total number of chat messages removed by the retention sweeper",
	})

	// BlockedSubmissions counts submissions rejected by the content filter,
	// by surface (thread, comment, chat).
	BlockedSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "parlor_blocked_submissions_total",
		Help: "Total number of submissions rejected by the content filter",
	}, []string{"surface"})
)

// DatabaseMetrics wraps DB access for recording query latency.
type DatabaseMetrics struct {
	db *gorm.DB
}

// NewDatabaseMetrics returns a new DatabaseMetrics instance.
func NewDatabaseMetrics(db *gorm.DB) *DatabaseMetrics {
	return &DatabaseMetrics{db: db}
}

// ObserveQuery records the latency of a database query.
func (m *DatabaseMetrics) ObserveQuery(operation, table string, start time.Time) {
	latency := time.Since(start).Seconds()
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(latency)
}

// TrackQuery returns a function that records query latency when called (e.g. defer).
func (m *DatabaseMetrics) TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		m.ObserveQuery(operation, table, start)
	}
}
