// Package metrics provides Prometheus metrics for the chore board engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the chore board service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Entity gauges - current size of each relation
	actorCount      prometheus.Gauge
	choreCount      prometheus.Gauge
	assignmentCount prometheus.Gauge

	// Hierarchy metrics - membership validation outcomes
	validationRejections *prometheus.CounterVec
	membersAdded         prometheus.Counter

	// Board metrics - cell write outcomes
	boardRejections  *prometheus.CounterVec
	boardMoves       prometheus.Counter
	boardClears      prometheus.Counter
	rotationsApplied prometheus.Counter

	// Cascade metrics - fan-out of compound deletes
	cascadeDeletes *prometheus.CounterVec

	// Store metrics - row store write latency by operation
	storeOpLatency *prometheus.HistogramVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "chorechart",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.actorCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "actors_total",
		Help:      "Current number of actor rows",
	})

	m.choreCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "chores_total",
		Help:      "Current number of chore rows",
	})

	m.assignmentCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assignments_total",
		Help:      "Current number of cell-membership rows",
	})

	m.validationRejections = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "validation_rejections_total",
			Help:      "Membership edges rejected by the hierarchy validator, by reason",
		},
		[]string{"reason"},
	)

	m.membersAdded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "members_added_total",
		Help:      "Membership edges accepted and committed",
	})

	m.boardRejections = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "board_rejections_total",
			Help:      "Cell writes rejected by the board, by reason",
		},
		[]string{"reason"},
	)

	m.boardMoves = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_moves_total",
		Help:      "Completed cell-to-cell moves",
	})

	m.boardClears = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "board_clears_total",
		Help:      "Cell and whole-board clear operations",
	})

	m.rotationsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rotations_applied_total",
		Help:      "Group rotations written to the board",
	})

	m.cascadeDeletes = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "cascade_deletes_total",
			Help:      "Compound delete operations, by entity kind",
		},
		[]string{"entity"},
	)

	m.storeOpLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_op_latency_milliseconds",
			Help:      "Row store write latency in milliseconds, by operation",
			Buckets:   m.histogramBuckets,
		},
		[]string{"op"},
	)

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
}

// GetRegistry returns the registry the global manager registers on, for
// exposition handlers.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// UpdateActorCount sets the actor gauge.
func UpdateActorCount(n int) {
	globalManager.actorCount.Set(float64(n))
}

// UpdateChoreCount sets the chore gauge.
func UpdateChoreCount(n int) {
	globalManager.choreCount.Set(float64(n))
}

// UpdateAssignmentCount sets the assignment gauge.
func UpdateAssignmentCount(n int) {
	globalManager.assignmentCount.Set(float64(n))
}

// RecordValidationRejected counts one rejected membership edge.
func RecordValidationRejected(reason string) {
	globalManager.validationRejections.WithLabelValues(reason).Inc()
}

// RecordMemberAdded counts one committed membership edge.
func RecordMemberAdded() {
	globalManager.membersAdded.Inc()
}

// RecordBoardRejection counts one rejected cell write.
func RecordBoardRejection(reason string) {
	globalManager.boardRejections.WithLabelValues(reason).Inc()
}

// RecordBoardMove counts one completed move.
func RecordBoardMove() {
	globalManager.boardMoves.Inc()
}

// RecordBoardClear counts one clear operation.
func RecordBoardClear() {
	globalManager.boardClears.Inc()
}

// RecordRotationApplied counts one rotation written to the board.
func RecordRotationApplied() {
	globalManager.rotationsApplied.Inc()
}

// RecordCascadeDelete counts one compound delete by entity kind.
func RecordCascadeDelete(entity string) {
	globalManager.cascadeDeletes.WithLabelValues(entity).Inc()
}

// RecordStoreOpLatency observes one store write latency sample.
func RecordStoreOpLatency(op string, ms float64) {
	globalManager.storeOpLatency.WithLabelValues(op).Observe(ms)
}

// RecordHTTPRequest counts one HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes one HTTP request duration sample.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, ms float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(ms)
}
