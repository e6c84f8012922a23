// Package metrics holds the process-wide Prometheus instruments.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/kamusis/coursepath/internal/dataset"
)

var (
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursepath_matches_total",
			Help: "Total number of successful matches by winning cluster",
		},
		[]string{"label"},
	)

	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "coursepath_match_duration_seconds",
			Help:    "Duration of nearest-centroid matches in seconds",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		},
	)

	DatasetFallback = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coursepath_dataset_fallback",
			Help: "1 when the built-in course table is in use, 0 otherwise",
		},
	)

	DatasetItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coursepath_dataset_items",
			Help: "Number of courses in the loaded table",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coursepath_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coursepath_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordMatch records a completed match.
func RecordMatch(label dataset.Label, duration time.Duration) {
	MatchesTotal.WithLabelValues(label.String()).Inc()
	MatchDuration.Observe(duration.Seconds())
}

// RecordDataset publishes the shape of the loaded course table.
func RecordDataset(items int, fallback bool) {
	DatasetItems.Set(float64(items))
	if fallback {
		DatasetFallback.Set(1)
	} else {
		DatasetFallback.Set(0)
	}
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
