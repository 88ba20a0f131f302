package metrics

import "github.com/prometheus/client_golang/prometheus"

// Explore pipeline Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rioscope",
			Name:      "searches_total",
			Help:      "Total catalog searches issued by the coordinator",
		},
		[]string{"kind"}, // filters, load_more, bounds
	)

	StaleResponsesDiscardedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "rioscope",
			Name:      "stale_responses_discarded_total",
			Help:      "Search responses dropped because their filters were superseded before arrival",
		},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rioscope",
			Name:      "search_cache_total",
			Help:      "Search result cache lookups",
		},
		[]string{"result"}, // hit, miss
	)
)

// RegisterExploreMetrics registers the explore metrics explicitly (no init()),
// so embedders of the session engine opt in rather than inherit globals.
func RegisterExploreMetrics() {
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(StaleResponsesDiscardedTotal)
	prometheus.MustRegister(SearchCacheTotal)
}
