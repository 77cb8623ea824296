// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fishtank"

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, action and status code.",
	}, []string{"method", "action", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and action.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "action"})

	FishOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fish_operations_total",
		Help:      "Record store operations by operation and outcome code.",
	}, []string{"operation", "outcome"})

	SkippedDescriptors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fish_descriptors_skipped_total",
		Help:      "Descriptors left out of a listing because they could not be read or parsed.",
	})

	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Lifecycle events handed to the broker, by event type and outcome.",
	}, []string{"type", "outcome"})

	EventPublishDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "event_publish_duration_seconds",
		Help:      "Time spent publishing one lifecycle event.",
		Buckets:   prometheus.DefBuckets,
	})
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

func Handler() http.Handler {
	return promhttp.Handler()
}
