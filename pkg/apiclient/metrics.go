package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	strategyCursor = "cursor"
	strategyToken  = "token"
	strategyOffset = "offset"
	strategyLink   = "link"
)

var (
	// pagesFetched counts pages retrieved by each pagination strategy.
	pagesFetched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendorapi_pages_fetched_total",
		Help: "Total pages fetched by pagination strategy",
	}, []string{"strategy"})

	// CacheHits tracks response cache hits by vendor.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendorapi_cache_hits_total",
		Help: "Total response cache hits by vendor",
	}, []string{"vendor"})

	// CacheMisses tracks response cache misses by vendor.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendorapi_cache_misses_total",
		Help: "Total response cache misses by vendor",
	}, []string{"vendor"})

	// NotModifiedResponses tracks 304 revalidations by vendor.
	NotModifiedResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vendorapi_304_responses_total",
		Help: "Total 304 Not Modified responses by vendor",
	}, []string{"vendor"})
)

// RecordLinkedPage counts one page retrieved by following a Link header.
func RecordLinkedPage() {
	pagesFetched.WithLabelValues(strategyLink).Inc()
}
