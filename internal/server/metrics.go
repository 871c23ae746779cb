package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medext_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medext_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Extraction pipeline metrics
	extractionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medext_extraction_requests_total",
			Help: "Total number of extraction requests",
		},
		[]string{"type", "status"}, // type: text, pdf
	)

	extractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medext_extraction_duration_seconds",
			Help:    "Extraction pipeline duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"type"},
	)

	labsExtracted = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "medext_labs_extracted",
			Help:    "Number of lab values extracted per report",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50},
		},
		[]string{"type"},
	)

	qualityScore = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "medext_quality_score",
			Help:    "Extraction quality score per scored report",
			Buckets: []float64{0, 0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
	)

	criticalValuesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "medext_critical_values_total",
			Help: "Total number of critical lab values detected",
		},
	)

	// Result cache metrics
	cacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "medext_cache_hits_total",
			Help: "Total number of result cache hits",
		},
	)

	cacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "medext_cache_misses_total",
			Help: "Total number of result cache misses",
		},
	)

	// Rate limiting metrics
	rateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "medext_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"type"}, // type: minute, requests, data
	)

	// File upload metrics
	uploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "medext_upload_size_bytes",
			Help:    "Size of uploaded files in bytes",
			Buckets: []float64{1024, 10 * 1024, 100 * 1024, 1024 * 1024, 10 * 1024 * 1024, 50 * 1024 * 1024},
		},
	)
)
