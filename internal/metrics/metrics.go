// README: Prometheus collectors for the analysis pipeline and itinerary enrichment.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Detections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_detections_total",
			Help: "Mode detections by family and detected track",
		},
		[]string{"family", "track"},
	)

	FallbackReports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_fallback_reports_total",
			Help: "Requests answered with the could-not-classify report",
		},
		[]string{"family"},
	)

	AnalyzerCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_analyzer_calls_total",
			Help: "Analyzer invocations by track and outcome",
		},
		[]string{"track", "outcome"},
	)

	AnalyzerDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guardian_analyzer_duration_seconds",
			Help:    "Analyzer latency including retries",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
		[]string{"track"},
	)

	PlaceCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_place_cache_lookups_total",
			Help: "Place details cache lookups by result",
		},
		[]string{"result"},
	)

	PlaceProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_place_provider_calls_total",
			Help: "Calls to the place provider by operation and outcome",
		},
		[]string{"op", "outcome"},
	)

	PlaceAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "guardian_place_api_duration_seconds",
			Help:    "Google Places request latency by operation",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"op"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "guardian_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"route", "status"},
	)

	EnrichInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "guardian_enrich_in_flight",
			Help: "Activities currently being resolved",
		},
	)
)

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
	OutcomeMiss  = "miss"
	OutcomeHit   = "hit"
)
