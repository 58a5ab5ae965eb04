package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OUTCOME_ASSIGNED  = "assigned"
	OUTCOME_CACHED    = "cached"
	OUTCOME_RACE_LOST = "race_lost"
	OUTCOME_REJECTED  = "rejected"
	OUTCOME_ERROR     = "error"
)

type Metrics struct {
	AssignmentsTotal   *prometheus.CounterVec
	AssignmentDuration prometheus.Histogram
	RenderErrorsTotal  prometheus.Counter
	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

var (
	metricsOnce     sync.Once
	metricsInstance *Metrics
)

// Get returns the process wide metrics, registering them on first use.
func Get() *Metrics {
	metricsOnce.Do(func() {
		metricsInstance = &Metrics{
			AssignmentsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "screenflow_assignments_total",
				Help: "Assignment requests by outcome and variant",
			}, []string{"outcome", "variant"}),
			AssignmentDuration: promauto.NewHistogram(prometheus.HistogramOpts{
				Name:    "screenflow_assignment_duration_seconds",
				Help:    "Time spent assigning a variant",
				Buckets: prometheus.DefBuckets,
			}),
			RenderErrorsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "screenflow_render_errors_total",
				Help: "Elements replaced by an error view",
			}),
			HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
				Name: "screenflow_http_requests_total",
				Help: "HTTP requests by route and status",
			}, []string{"route", "status"}),
			HTTPDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "screenflow_http_request_duration_seconds",
				Help:    "HTTP request latency by route",
				Buckets: prometheus.DefBuckets,
			}, []string{"route"}),
		}
	})
	return metricsInstance
}

func (m *Metrics) RecordAssignment(outcome string, variantId string, started time.Time) {
	if m == nil {
		return
	}
	m.AssignmentsTotal.WithLabelValues(outcome, variantId).Inc()
	m.AssignmentDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) RecordRenderError() {
	if m == nil {
		return
	}
	m.RenderErrorsTotal.Inc()
}

func (m *Metrics) RecordRequest(route string, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
