package fatsecret

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nutri_fatsecret_requests_total",
			Help: "Total number of FatSecret API calls",
		},
		[]string{"method", "outcome"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nutri_fatsecret_request_duration_seconds",
			Help:    "FatSecret API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	recipesFiltered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nutri_recipes_filtered_total",
			Help: "Total number of recipe candidates rejected by dietary rules",
		},
	)
)
