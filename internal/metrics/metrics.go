// Package metrics provides Prometheus metrics for the PokePort backend.
// Scrape these at /metrics for Grafana dashboards and alerting.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeport_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pokeport_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Scan Pipeline Metrics
	ScanRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeport_scan_requests_total",
			Help: "Total number of card scan requests",
		},
		[]string{"result"}, // "success", "recognition_failed", "no_image"
	)

	ScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pokeport_scan_duration_seconds",
			Help:    "End-to-end scan pipeline latency",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30},
		},
	)

	// Recognition Metrics
	RecognitionRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokeport_recognition_requests_total",
			Help: "Total vision recognition API requests",
		},
	)

	RecognitionAPILatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pokeport_recognition_api_latency_seconds",
			Help:    "Vision recognition API call latency",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20},
		},
	)

	RecognitionConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pokeport_recognition_confidence",
			Help:    "Vision model self-reported confidence scores",
			Buckets: []float64{0.1, 0.3, 0.5, 0.6, 0.7, 0.8, 0.9, 0.95, 1.0},
		},
	)

	RecognitionErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeport_recognition_errors_total",
			Help: "Recognition errors by type",
		},
		[]string{"type"}, // "network", "api", "parse", "low_confidence", "unknown_card"
	)

	// Catalog Search Metrics
	CatalogQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeport_catalog_queries_total",
			Help: "Catalog search queries by strategy and result",
		},
		[]string{"strategy", "result"}, // strategy: "name_and_set", "name", "stripped", result: "hit", "empty", "error"
	)

	CatalogQueryLatency = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pokeport_catalog_query_latency_seconds",
			Help:    "Catalog API query latency",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 8},
		},
	)

	// Price Resolution Metrics
	PriceResolutionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeport_price_resolutions_total",
			Help: "Resolved market prices by source",
		},
		[]string{"source"}, // "catalog", "catalog_image_only", "synthetic"
	)

	// Condition Assessment Metrics
	ConditionAssessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pokeport_condition_assessments_total",
			Help: "Condition assessment requests by result",
		},
		[]string{"result"}, // "success", "failed"
	)

	// Trending Metrics
	TrendingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokeport_trending_cache_hits_total",
			Help: "Trending card price cache hit count",
		},
	)

	TrendingCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pokeport_trending_cache_misses_total",
			Help: "Trending card price cache miss count",
		},
	)

	// Portfolio Metrics
	PortfolioCardsTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokeport_portfolio_cards_total",
			Help: "Total number of cards across all portfolios",
		},
	)

	PortfolioValueUSD = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pokeport_portfolio_value_usd",
			Help: "Total estimated value of all portfolios in USD",
		},
	)
)
