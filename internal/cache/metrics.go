package cache

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PageHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transaction_page_cache_hits_total",
			Help: "Page reads served from the cache",
		},
		[]string{"backend"},
	)
	PageMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transaction_page_cache_misses_total",
			Help: "Page reads that fell through to the store",
		},
		[]string{"backend"},
	)
	PageStores = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transaction_page_cache_stores_total",
			Help: "Pages written to the cache, by outcome",
		},
		[]string{"backend", "outcome"},
	)
	Invalidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "transaction_page_cache_invalidations_total",
			Help: "Full cache clears triggered by writes",
		},
		[]string{"backend"},
	)
)

func init() {
	prometheus.MustRegister(PageHits)
	prometheus.MustRegister(PageMisses)
	prometheus.MustRegister(PageStores)
	prometheus.MustRegister(Invalidations)
}
