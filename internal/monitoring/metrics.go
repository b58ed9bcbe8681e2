package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Backtest metrics
	backtestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dca_backtest_runs_total",
			Help: "Total number of backtest runs",
		},
		[]string{"variant", "status"},
	)

	backtestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dca_backtest_run_duration_seconds",
			Help:    "Distribution of backtest run durations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"variant"},
	)

	// Data fetch metrics
	fetchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dca_backtest_fetch_requests_total",
			Help: "Total number of market data fetch requests",
		},
		[]string{"source", "status"},
	)

	candlesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dca_backtest_candles_fetched_total",
			Help: "Total number of candles fetched from data sources",
		},
		[]string{"source", "symbol"},
	)

	// Significance test metrics
	comparisonsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dca_backtest_comparisons_total",
			Help: "Total number of strategy significance comparisons",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(backtestsTotal)
	prometheus.MustRegister(backtestDuration)
	prometheus.MustRegister(fetchRequestsTotal)
	prometheus.MustRegister(candlesFetched)
	prometheus.MustRegister(comparisonsTotal)
}

// MetricsHandler serves the Prometheus metrics endpoint.
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler.
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordBacktest records a completed or failed backtest run.
func RecordBacktest(variant, status string, duration time.Duration) {
	backtestsTotal.WithLabelValues(variant, status).Inc()
	backtestDuration.WithLabelValues(variant).Observe(duration.Seconds())
}

// RecordFetch records a market data fetch attempt.
func RecordFetch(source, status string) {
	fetchRequestsTotal.WithLabelValues(source, status).Inc()
}

// RecordCandles records how many candles a fetch returned.
func RecordCandles(source, symbol string, count int) {
	candlesFetched.WithLabelValues(source, symbol).Add(float64(count))
}

// RecordComparison records a significance comparison outcome.
func RecordComparison(status string) {
	comparisonsTotal.WithLabelValues(status).Inc()
}
