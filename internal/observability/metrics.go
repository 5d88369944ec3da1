// Package observability registers and records prometheus metrics.
package observability

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"method", "route", "status"},
	)

	layerQueryDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "layer_query_duration_seconds",
			Help:    "Duration of spatial layer queries in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"layer"},
	)

	layerFeaturesReturned = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "layer_features_returned",
			Help:    "Number of features returned per layer query.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 to ~16k
		},
		[]string{"layer"},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)
)

func ObserveHTTP(method, route string, status int, durationSeconds float64) {
	st := strconv.Itoa(status)
	httpRequestsTotal.WithLabelValues(method, route, st).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route, st).Observe(durationSeconds)
}

func ObserveLayerQuery(layer string, durationSeconds float64, features int) {
	layerQueryDurationSeconds.WithLabelValues(layer).Observe(durationSeconds)
	layerFeaturesReturned.WithLabelValues(layer).Observe(float64(features))
}

func SetBuildInfo(version string) {
	buildInfo.WithLabelValues(version).Set(1)
}
