// Package metrics defines the Prometheus counters exposed on /metrics.
//
// Naming follows Prometheus conventions: menubot_ prefix, _total suffix
// for counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits counts Get calls served from a fresh snapshot.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "menubot_cache_hits_total",
		Help: "Menu cache reads served without an upstream fetch.",
	})

	// CacheMisses counts Get calls that triggered an upstream fetch.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "menubot_cache_misses_total",
		Help: "Menu cache reads that required an upstream fetch.",
	})

	// CacheStaleServed counts fetches that failed entirely, leaving the
	// previous snapshot in place.
	CacheStaleServed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "menubot_cache_stale_served_total",
		Help: "Expired snapshots kept because the refetch yielded no data.",
	})

	// UpstreamErrors counts failed menu API requests by endpoint.
	UpstreamErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menubot_upstream_errors_total",
		Help: "Failed menu API requests by endpoint.",
	}, []string{"endpoint"})

	// MessagesSent counts successful outbound sends by kind (text, image).
	MessagesSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menubot_messages_sent_total",
		Help: "Outbound messages delivered to the chat platform by kind.",
	}, []string{"kind"})

	// SendFailures counts failed outbound sends by kind.
	SendFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "menubot_send_failures_total",
		Help: "Outbound sends rejected by the chat platform by kind.",
	}, []string{"kind"})

	// ImageFallbacks counts image sends degraded to plain-text captions.
	ImageFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "menubot_image_fallbacks_total",
		Help: "Product image sends that fell back to a text caption.",
	})
)
