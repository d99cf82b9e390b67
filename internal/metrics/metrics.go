package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"hn_reader/internal/source/hn"
)

var (
	// HTTP request metrics
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// HN API fetch metrics
	FetchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hn_fetch_requests_total",
			Help: "Total number of requests issued to the HN API",
		},
		[]string{"kind"},
	)

	FetchFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hn_fetch_failures_total",
			Help: "Total number of failed HN API requests",
		},
		[]string{"kind", "reason"},
	)

	RetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hn_story_retries_total",
			Help: "Total number of story requests re-issued after a failure",
		},
	)

	AbandonedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hn_story_abandoned_total",
			Help: "Total number of stories given up on after the retry budget",
		},
	)

	StaleResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stale_results_total",
			Help: "Total number of results discarded because a newer refresh superseded them",
		},
		[]string{"kind"},
	)

	RefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hn_refreshes_total",
			Help: "Total number of refreshes requested",
		},
		[]string{"category", "trigger"},
	)
)

// FeedObserver records feed pipeline events.
type FeedObserver struct{}

func (FeedObserver) RequestIssued(kind string) {
	FetchRequestsTotal.WithLabelValues(kind).Inc()
}

func (FeedObserver) RequestFailed(kind string, err error) {
	FetchFailuresTotal.WithLabelValues(kind, hn.Reason(err)).Inc()
}

func (FeedObserver) Retried() {
	RetriesTotal.Inc()
}

func (FeedObserver) Abandoned() {
	AbandonedTotal.Inc()
}

func (FeedObserver) StaleDiscarded(kind string) {
	StaleResultsTotal.WithLabelValues(kind).Inc()
}
