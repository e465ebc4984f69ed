package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "tasktracker"

type Metrics struct {
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	DashboardDuration prometheus.Histogram
	WorkloadLevels    *prometheus.GaugeVec

	ApprovalTransitions *prometheus.CounterVec
	OutboxEvents        *prometheus.CounterVec
}

// New registers every collector on reg. Passing a fresh registry keeps
// tests isolated from the process-wide default one.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "http_requests_in_flight",
				Help:      "Current number of HTTP requests being processed",
			},
		),
		DashboardDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "dashboard_summary_duration_seconds",
				Help:      "Time spent building one dashboard summary",
				Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		WorkloadLevels: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "employees_by_workload_level",
				Help:      "Employees per workload level in the latest dashboard summary",
			},
			[]string{"level"},
		),
		ApprovalTransitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "approval_transitions_total",
				Help:      "Employee approval workflow transitions",
			},
			[]string{"action", "outcome"},
		),
		OutboxEvents: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "outbox_events_total",
				Help:      "Outbox events handled by the relay worker",
			},
			[]string{"result"},
		),
	}
}

// Handler serves the collectors registered on g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordHTTP(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) RecordDashboard(duration time.Duration, levels map[string]int) {
	if m == nil {
		return
	}
	m.DashboardDuration.Observe(duration.Seconds())
	m.WorkloadLevels.Reset()
	for level, n := range levels {
		m.WorkloadLevels.WithLabelValues(level).Set(float64(n))
	}
}

func (m *Metrics) RecordApproval(action, outcome string) {
	if m == nil {
		return
	}
	m.ApprovalTransitions.WithLabelValues(action, outcome).Inc()
}

func (m *Metrics) RecordOutbox(result string) {
	if m == nil {
		return
	}
	m.OutboxEvents.WithLabelValues(result).Inc()
}
