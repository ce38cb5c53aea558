// Package metrics records shortcode and HTTP telemetry with Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-academy-cms/pkg/interfaces"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "academy"

// Recorder implements interfaces.ShortcodeMetrics and tracks HTTP requests.
type Recorder struct {
	expansionDuration prometheus.Histogram
	expansions        prometheus.Counter
	matches           prometheus.Counter
	fetchFailures     *prometheus.CounterVec
	requests          *prometheus.CounterVec
	requestDuration   *prometheus.HistogramVec
}

var _ interfaces.ShortcodeMetrics = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them with reg.
func NewRecorder(reg prometheus.Registerer, namespace string) (*Recorder, error) {
	if reg == nil {
		return nil, errors.New("metrics: registerer required")
	}
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = DefaultNamespace
	}

	r := &Recorder{
		expansionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "shortcode",
			Name:      "expansion_duration_seconds",
			Help:      "Time spent loading data and rendering sitemap shortcodes per Process call.",
			Buckets:   prometheus.DefBuckets,
		}),
		expansions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shortcode",
			Name:      "expansions_total",
			Help:      "Process calls that expanded at least one shortcode.",
		}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "shortcode",
			Name:      "matches_expanded_total",
			Help:      "Shortcode occurrences replaced with rendered HTML.",
		}),
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sitemap",
			Name:      "fetch_failures_total",
			Help:      "Failed sitemap collection fetches by collection.",
		}, []string{"source"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	for _, collector := range []prometheus.Collector{
		r.expansionDuration,
		r.expansions,
		r.matches,
		r.fetchFailures,
		r.requests,
		r.requestDuration,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("metrics: register collector: %w", err)
		}
	}
	return r, nil
}

// ObserveExpansion records one Process call.
func (r *Recorder) ObserveExpansion(duration time.Duration, matches int) {
	r.expansionDuration.Observe(duration.Seconds())
	r.expansions.Inc()
	if matches > 0 {
		r.matches.Add(float64(matches))
	}
}

// IncrementFetchFailure counts a failed collection fetch.
func (r *Recorder) IncrementFetchFailure(source string) {
	r.fetchFailures.WithLabelValues(source).Inc()
}

// ObserveRequest records a served HTTP request. route is the matched route
// pattern, not the raw path.
func (r *Recorder) ObserveRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler exposes the gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
