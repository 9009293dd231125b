package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DetectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fraud",
		Name:      "detections_total",
		Help:      "Persisted detections by verdict and matched rule.",
	}, []string{"verdict", "rule"})

	DetectionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "fraud",
		Name:      "detection_duration_seconds",
		Help:      "Time spent evaluating and persisting one transaction.",
		Buckets:   prometheus.DefBuckets,
	})

	AuthAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_attempts_total",
		Help: "Registration and login attempts by outcome.",
	}, []string{"operation", "outcome"})

	EventPublishFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fraud",
		Name:      "event_publish_failures_total",
		Help:      "Detection events that could not be published.",
	})
)
