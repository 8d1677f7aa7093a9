// Package metrics defines Prometheus metrics for storeiq.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storeiq"

// HTTP metrics.
var (
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status"})

	HealthzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "healthz_up",
		Help:      "1 if the last liveness probe succeeded, 0 otherwise.",
	})

	ReadyzUp = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "readyz_up",
		Help:      "1 if the last readiness probe succeeded, 0 otherwise.",
	})
)

// Recompute job metrics.
var (
	RefreshDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "refresh_duration_seconds",
		Help:      "Duration of derived-artifact refresh jobs in seconds.",
		Buckets:   []float64{.1, .5, 1, 5, 15, 60, 300, 900},
	}, []string{"job"})

	RefreshErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_errors_total",
		Help:      "Total number of failed refresh jobs.",
	}, []string{"job"})

	RecordsSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_skipped_total",
		Help:      "Records skipped during batch recompute due to per-record errors.",
	}, []string{"job"})
)

// Artifact metrics.
var (
	SimilarityEntries = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "similarity_entries",
		Help:      "Cached similarity pairs per strategy after the last refresh.",
	}, []string{"strategy"})

	AssociationRules = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "association_rules",
		Help:      "Association rules retained after the last mining run.",
	})

	SentimentRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "sentiment_records",
		Help:      "Products with a computed sentiment record.",
	})

	ForecastPoints = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "forecast_points",
		Help:      "Forecast points produced by the last forecast refresh.",
	})
)

// Recommendation serving metrics.
var (
	RecommendationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recommendations_total",
		Help:      "Recommendation requests served, by strategy.",
	}, []string{"strategy"})

	ColdStartTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cold_start_total",
		Help:      "Recommendation requests served from the cold-start fallback.",
	})
)
