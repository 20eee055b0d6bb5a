// Package monitoring exposes Prometheus counters for analysis runs.
package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SymbolsEvaluated counts symbols pushed through the performance
	// table builder, successes and failures alike.
	SymbolsEvaluated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_analyzer_symbols_evaluated_total",
		Help: "Total number of symbols evaluated for performance tables",
	})

	// SymbolFailures counts symbols dropped from a table by errors.
	SymbolFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_analyzer_symbol_failures_total",
		Help: "Total number of symbols dropped from performance tables",
	})

	// CombinationFailures counts (x, y, z) combinations that failed during
	// batch exploration.
	CombinationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_analyzer_combination_failures_total",
		Help: "Total number of failed window combinations during exploration",
	})

	// HistoryLoads counts price history files read from disk, as opposed
	// to served from the in-memory cache.
	HistoryLoads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "stock_analyzer_history_loads_total",
		Help: "Total number of price history files loaded from disk",
	})
)

// MetricsHandler handles the Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
