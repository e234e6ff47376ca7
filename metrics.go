package analysiscache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "analysiscache_hits",
	Help: "Number of analysis cache hits",
}, []string{"namespace"})

var cacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "analysiscache_misses",
	Help: "Number of analysis cache misses",
}, []string{"namespace"})

var requestsCoalesced = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "analysiscache_requests_coalesced",
	Help: "Number of requests coalesced into an in-flight computation",
}, []string{"namespace"})

var computeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "analysiscache_compute_errors",
	Help: "Number of failed analysis computations",
}, []string{"namespace"})

var storeReadErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "analysiscache_store_read_errors",
	Help: "Number of store read failures degraded to recomputation",
}, []string{"namespace"})

var storeWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "analysiscache_store_write_errors",
	Help: "Number of store write failures after a successful computation",
}, []string{"namespace"})

var invalidations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "analysiscache_invalidations",
	Help: "Number of explicit cache invalidations",
}, []string{"namespace"})
