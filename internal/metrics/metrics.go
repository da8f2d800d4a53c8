// Package metrics holds the prometheus collectors of the content service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch sources and outcomes used as label values.
const (
	SourceEpisodes = "episodes"
	SourceVideos   = "videos"

	OutcomeOK          = "ok"
	OutcomeError       = "error"
	OutcomeUnavailable = "unavailable"
	OutcomeDiscarded   = "discarded"
)

var (
	PageMounts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "content_hub",
		Name:      "page_mounts_total",
		Help:      "Number of episodes page mounts.",
	})

	Fetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "content_hub",
		Name:      "page_fetches_total",
		Help:      "Page data fetches by source and outcome.",
	}, []string{"source", "outcome"})

	LoadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "content_hub",
		Name:      "page_load_duration_seconds",
		Help:      "Time from mount until both page fetches settled.",
		Buckets:   prometheus.DefBuckets,
	})

	LeadsCaptured = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "content_hub",
		Name:      "leads_captured_total",
		Help:      "Lead capture callbacks by forwarding outcome.",
	}, []string{"outcome"})
)
