package spenderindex

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/bsv-blockchain/spenderindex/util"
)

var (
	prometheusSpenderIndexConnectBlock    prometheus.Histogram
	prometheusSpenderIndexDisconnectBlock prometheus.Histogram
	prometheusSpenderIndexFindSpender     prometheus.Histogram
	prometheusSpenderIndexCollisions      prometheus.Counter
	prometheusSpenderIndexMissingRecords  prometheus.Counter
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusSpenderIndexConnectBlock = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "spenderindex",
			Name:      "connect_block",
			Help:      "Duration of indexing one connected block",
			Buckets:   util.MetricsBucketsMilliSeconds,
		},
	)

	prometheusSpenderIndexDisconnectBlock = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "spenderindex",
			Name:      "disconnect_block",
			Help:      "Duration of undoing one disconnected block",
			Buckets:   util.MetricsBucketsMilliSeconds,
		},
	)

	prometheusSpenderIndexFindSpender = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "spenderindex",
			Name:      "find_spender",
			Help:      "Duration of one FindSpender query",
			Buckets:   util.MetricsBucketsMicroSeconds,
		},
	)

	prometheusSpenderIndexCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "spenderindex",
			Name:      "collisions",
			Help:      "Number of bucket key collisions seen while indexing",
		},
	)

	prometheusSpenderIndexMissingRecords = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "spenderindex",
			Name:      "missing_records",
			Help:      "Number of expected bucket records or candidates missing on disconnect",
		},
	)
}
