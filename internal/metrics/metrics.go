// Package metrics exposes Prometheus collectors for the insights service.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch and extraction outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeFailure     = "failure"
	OutcomePartial     = "partial"
	OutcomeUnsupported = "unsupported"
)

var (
	fetchPagesTotal            *prometheus.CounterVec
	fetchBytesTotal            *prometheus.CounterVec
	extractionsTotal           *prometheus.CounterVec
	extractionDurationSeconds  prometheus.Histogram
	competitorAnalysesTotal    *prometheus.CounterVec
	pacingDelaySeconds         prometheus.Histogram
	recordsTotal               *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init registers the Prometheus collectors. It is safe to call repeatedly and
// every Observe helper calls it, so explicit initialization is optional.
func Init() {
	once.Do(func() {
		fetchPagesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_fetch_pages_total",
				Help: "Total number of storefront pages fetched, labeled by site and outcome.",
			},
			[]string{"site", "outcome"},
		)

		fetchBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_fetch_bytes_total",
				Help: "Total number of bytes fetched, labeled by site.",
			},
			[]string{"site"},
		)

		extractionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_extractions_total",
				Help: "Total number of brand extractions, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		extractionDurationSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "insights_extraction_duration_seconds",
				Help:    "Histogram of end-to-end brand extraction latencies.",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60},
			},
		)

		competitorAnalysesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_competitor_analyses_total",
				Help: "Total number of competitor analyses, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		pacingDelaySeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "insights_competitor_pacing_delay_seconds",
				Help:    "Histogram of waits between competitor extractions.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
			},
		)

		recordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "insights_records_total",
				Help: "Total number of result sink writes, labeled by sink and outcome.",
			},
			[]string{"sink", "outcome"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "route"},
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

// ObserveFetch records a single storefront fetch.
func ObserveFetch(site, outcome string, bytesFetched int) {
	Init()
	sanitized := SanitizeSite(site)
	fetchPagesTotal.WithLabelValues(sanitized, outcome).Inc()
	if bytesFetched > 0 {
		fetchBytesTotal.WithLabelValues(sanitized).Add(float64(bytesFetched))
	}
}

// ObserveExtraction records a finished brand extraction.
func ObserveExtraction(outcome string, duration time.Duration) {
	Init()
	extractionsTotal.WithLabelValues(outcome).Inc()
	extractionDurationSeconds.Observe(duration.Seconds())
}

// ObserveCompetitorAnalysis records a finished competitor analysis.
func ObserveCompetitorAnalysis(outcome string) {
	Init()
	competitorAnalysesTotal.WithLabelValues(outcome).Inc()
}

// ObservePacingDelay records how long the analyzer waited before the next
// competitor extraction.
func ObservePacingDelay(duration time.Duration) {
	Init()
	pacingDelaySeconds.Observe(duration.Seconds())
}

// ObserveRecord records one write to a result sink (store, blob, publisher).
func ObserveRecord(sink, outcome string) {
	Init()
	recordsTotal.WithLabelValues(sink, outcome).Inc()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
