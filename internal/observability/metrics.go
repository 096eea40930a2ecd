// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Auction metrics
	SalesRecorded  *prometheus.CounterVec
	SaleRejections *prometheus.CounterVec
	Validations    *prometheus.CounterVec
	PoolResets     *prometheus.CounterVec

	// Draft metrics
	DraftSessionsStarted prometheus.Counter
	DraftSessionsActive  prometheus.Gauge

	// Seeding metrics
	PlayersSeeded *prometheus.CounterVec

	// RPC metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Store metrics
	StoreOpDuration *prometheus.HistogramVec
	StoreOpErrors   *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "ipl_auction"
	}

	return &Metrics{
		SalesRecorded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auction",
			Name:      "sales_recorded_total",
			Help:      "Total number of recorded sales by pool and team",
		}, []string{"pool", "team"}),
		SaleRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auction",
			Name:      "sale_rejections_total",
			Help:      "Total number of rejected sale proposals by reason",
		}, []string{"kind"}),
		Validations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auction",
			Name:      "validations_total",
			Help:      "Total number of sale validations by result",
		}, []string{"result"}),
		PoolResets: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auction",
			Name:      "pool_resets_total",
			Help:      "Total number of pool resets",
		}, []string{"pool"}),

		DraftSessionsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "draft",
			Name:      "sessions_started_total",
			Help:      "Total number of draft sessions started",
		}),
		DraftSessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "draft",
			Name:      "sessions_active",
			Help:      "Current number of live draft sessions",
		}),

		PlayersSeeded: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "seed",
			Name:      "players_total",
			Help:      "Total number of players loaded into the pools",
		}, []string{"pool"}),

		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "requests_total",
			Help:      "Total number of RPC requests by procedure and code",
		}, []string{"procedure", "code"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "request_duration_seconds",
			Help:      "RPC request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),

		StoreOpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Player store operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		StoreOpErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_errors_total",
			Help:      "Total number of failed player store operations",
		}, []string{"operation"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordSale increments the sales counter.
func RecordSale(pool, team string) {
	DefaultMetrics.SalesRecorded.WithLabelValues(pool, team).Inc()
}

// RecordValidation records the outcome of a sale validation.
// kind is empty for an accepted proposal.
func RecordValidation(kind string) {
	if kind == "" {
		DefaultMetrics.Validations.WithLabelValues("valid").Inc()
		return
	}
	DefaultMetrics.Validations.WithLabelValues("rejected").Inc()
	DefaultMetrics.SaleRejections.WithLabelValues(kind).Inc()
}

// RecordPoolReset increments the reset counter for a pool.
func RecordPoolReset(pool string) {
	DefaultMetrics.PoolResets.WithLabelValues(pool).Inc()
}

// RecordDraftStarted counts a new draft session.
func RecordDraftStarted() {
	DefaultMetrics.DraftSessionsStarted.Inc()
}

// UpdateDraftSessions sets the live draft session gauge.
func UpdateDraftSessions(n int) {
	DefaultMetrics.DraftSessionsActive.Set(float64(n))
}

// RecordPlayersSeeded adds n seeded players for a pool.
func RecordPlayersSeeded(pool string, n int) {
	DefaultMetrics.PlayersSeeded.WithLabelValues(pool).Add(float64(n))
}

// RecordRequest records an RPC request.
func RecordRequest(procedure, code string, seconds float64) {
	DefaultMetrics.RequestsTotal.WithLabelValues(procedure, code).Inc()
	DefaultMetrics.RequestDuration.WithLabelValues(procedure).Observe(seconds)
}

// RecordStoreOp records player store operation metrics.
func RecordStoreOp(operation string, seconds float64, err error) {
	DefaultMetrics.StoreOpDuration.WithLabelValues(operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.StoreOpErrors.WithLabelValues(operation).Inc()
	}
}
