package routing

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Match result labels.
const (
	resultMatch   = "match"
	resultNoMatch = "no_match"
)

// tableMetrics contains Prometheus metrics for route tables.
type tableMetrics struct {
	tablesBuilt prometheus.Counter
	routes      prometheus.Gauge
	matches     *prometheus.CounterVec
	candidates  prometheus.Histogram
}

var (
	tableMetricsInstance *tableMetrics
	tableMetricsOnce     sync.Once
)

// getTableMetrics returns the singleton table metrics instance.
func getTableMetrics() *tableMetrics {
	tableMetricsOnce.Do(func() {
		tableMetricsInstance = &tableMetrics{
			tablesBuilt: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "routematch",
					Subsystem: "table",
					Name:      "built_total",
					Help:      "Total number of route tables built",
				},
			),
			routes: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "routematch",
					Subsystem: "table",
					Name:      "routes",
					Help:      "Current number of registered routes across open tables",
				},
			),
			matches: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "routematch",
					Subsystem: "table",
					Name:      "match_total",
					Help:      "Total number of match queries by result",
				},
				[]string{"result"},
			),
			candidates: promauto.NewHistogram(
				prometheus.HistogramOpts{
					Namespace: "routematch",
					Subsystem: "table",
					Name:      "match_candidates",
					Help:      "Number of prefix candidates considered per match query",
					Buckets:   prometheus.LinearBuckets(0, 2, 8),
				},
			),
		}
	})
	return tableMetricsInstance
}
