package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "vivah_search_duration_seconds",
		Help:    "End-to-end search latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	searchResults = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vivah_search_results_total",
		Help: "Candidates returned across all search pages.",
	})

	shortlistConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vivah_shortlist_conflicts_total",
		Help: "Duplicate shortlist attempts rejected by the store.",
	})
)
