// Package metrics exposes Prometheus collectors for the archiver.
package metrics

import (
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	storiesTotal             *prometheus.CounterVec
	linksTotal               *prometheus.CounterVec
	fetchBytesTotal          *prometheus.CounterVec
	fetchesInFlight          prometheus.Gauge
	iterationsTotal          *prometheus.CounterVec
	iterationDurationSeconds prometheus.Histogram

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		storiesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newshound_stories_total",
				Help: "Total number of stories processed, labeled by terminal state.",
			},
			[]string{"state"},
		)

		linksTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newshound_comment_links_total",
				Help: "Total number of comment-linked resources processed, labeled by result.",
			},
			[]string{"result"},
		)

		fetchBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newshound_fetch_bytes_total",
				Help: "Total number of bytes fetched, labeled by site.",
			},
			[]string{"site"},
		)

		fetchesInFlight = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "newshound_fetches_in_flight",
				Help: "Number of fetches currently holding a connection slot.",
			},
		)

		iterationsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "newshound_iterations_total",
				Help: "Total number of crawl iterations, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		iterationDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "newshound_iteration_duration_seconds",
				Help:    "Histogram of crawl iteration durations.",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveStory increments the story counter for the given state.
func ObserveStory(state string) {
	storiesTotal.WithLabelValues(state).Inc()
}

// ObserveLink increments the comment-link counter for the given result.
func ObserveLink(result string) {
	linksTotal.WithLabelValues(result).Inc()
}

// ObserveFetch records bytes fetched from a site.
func ObserveFetch(site string, bytesFetched int) {
	if bytesFetched > 0 {
		fetchBytesTotal.WithLabelValues(SanitizeSite(site)).Add(float64(bytesFetched))
	}
}

// IncFetchesInFlight increments the in-flight fetch gauge.
func IncFetchesInFlight() {
	fetchesInFlight.Inc()
}

// DecFetchesInFlight decrements the in-flight fetch gauge.
func DecFetchesInFlight() {
	fetchesInFlight.Dec()
}

// ObserveIteration records one finished crawl iteration.
func ObserveIteration(outcome string, duration time.Duration) {
	iterationsTotal.WithLabelValues(outcome).Inc()
	iterationDurationSeconds.Observe(duration.Seconds())
}
