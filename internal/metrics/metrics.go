package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CatalogRefreshes counts successful full-snapshot reloads.
	CatalogRefreshes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_refresh_total",
		Help: "Number of successful catalog snapshot reloads.",
	})

	// CatalogRefreshFailures counts reloads that left the cache degraded.
	CatalogRefreshFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_refresh_failures_total",
		Help: "Number of failed catalog snapshot reloads.",
	})

	// RecommendRequests counts recommendation requests by outcome
	// (ok, empty, rejected, busy, error).
	RecommendRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recommend_requests_total",
		Help: "Number of recommendation requests by outcome.",
	}, []string{"outcome"})
)
