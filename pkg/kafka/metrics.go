package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Publish outcomes are labeled by topic and event type so a stuck
// checkout stream stands out from chatty cart updates.
var (
	eventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Events accepted by the Kafka brokers.",
		},
		[]string{"topic", "event_type"},
	)

	eventsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storefront",
			Subsystem: "events",
			Name:      "publish_errors_total",
			Help:      "Events the Kafka brokers did not accept.",
		},
		[]string{"topic", "event_type"},
	)

	publishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storefront",
			Subsystem: "events",
			Name:      "publish_duration_seconds",
			Help:      "Time spent writing one event to Kafka.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"topic"},
	)
)
