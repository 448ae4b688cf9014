package metrics

import "github.com/prometheus/client_golang/prometheus"

// Federated search Prometheus metrics.
var (
	PartitionRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fedvid",
			Name:      "partition_requests_total",
			Help:      "Total number of partition search/continuation requests",
		},
		[]string{"partition", "kind", "status"},
	)

	PartitionRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fedvid",
			Name:      "partition_request_duration_seconds",
			Help:      "Partition request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"partition", "kind"},
	)

	StaleResponsesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fedvid",
			Name:      "stale_responses_total",
			Help:      "Responses discarded because the session moved to a newer version",
		},
	)

	MergedHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fedvid",
			Name:      "merged_hits_total",
			Help:      "Hits added to aggregated result sets after deduplication",
		},
		[]string{"partition"},
	)

	CrossModalMatchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fedvid",
			Name:      "crossmodal_matches_total",
			Help:      "Cross-modal matches produced, by origin signal",
		},
		[]string{"origin"},
	)

	DetailCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fedvid",
			Name:      "detail_cache_total",
			Help:      "Detail metadata cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(PartitionRequestsTotal)
	prometheus.MustRegister(PartitionRequestDuration)
	prometheus.MustRegister(StaleResponsesTotal)
	prometheus.MustRegister(MergedHitsTotal)
	prometheus.MustRegister(CrossModalMatchesTotal)
	prometheus.MustRegister(DetailCacheTotal)
	searchMetricsRegistered = true
}
