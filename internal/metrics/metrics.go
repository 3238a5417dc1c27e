package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder counts dispatched requests per route. Each Recorder owns its
// registry so several can live in one process (tests, multiple adapters).
type Recorder struct {
	service  string
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	status   *prometheus.CounterVec
	skipped  *prometheus.CounterVec
}

func NewRecorder(service string) *Recorder {
	r := &Recorder{
		service:  service,
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of dispatched requests",
			},
			[]string{"service", "route", "method", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of dispatched requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "route", "method"},
		),
		status: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_status_category_total",
				Help: "Total number of responses by status category (2xx, 4xx, 5xx)",
			},
			[]string{"service", "category"},
		),
		skipped: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "batch_items_skipped_total",
				Help: "Batch items skipped or failed during upsert saves",
			},
			[]string{"service", "collection", "reason"},
		),
	}

	r.registry.MustRegister(
		r.requests,
		r.duration,
		r.status,
		r.skipped,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// ObserveRequest records one dispatched request.
func (r *Recorder) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.requests.WithLabelValues(r.service, route, method, strconv.Itoa(status)).Inc()
	r.duration.WithLabelValues(r.service, route, method).Observe(elapsed.Seconds())
	if category := statusCategory(status); category != "" {
		r.status.WithLabelValues(r.service, category).Inc()
	}
}

// ObserveSkipped records a batch item that was not persisted.
func (r *Recorder) ObserveSkipped(collection, reason string) {
	if r == nil {
		return
	}
	r.skipped.WithLabelValues(r.service, collection, reason).Inc()
}

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func statusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500 && status < 600:
		return "5xx"
	}
	return ""
}
