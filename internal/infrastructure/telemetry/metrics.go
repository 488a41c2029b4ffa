package telemetry

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/fieldops/backend/internal/domain/report"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fieldops"

// Metrics holds the Prometheus collectors exposed on /metrics.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	reportsTotal     *prometheus.CounterVec
	reportDuration   *prometheus.HistogramVec
	reportAmount     *prometheus.CounterVec
	paymentsSettled  *prometheus.CounterVec
	statsCacheLookup *prometheus.CounterVec
}

// NewMetrics creates the collectors on a private registry, along with the
// Go runtime and process collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		reportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_total",
			Help:      "Finished report generations by type, period and outcome.",
		}, []string{"type", "period", "status"}),
		reportDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "report_generation_duration_seconds",
			Help:      "Time from request to stored report file.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"type"}),
		reportAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_amount_total",
			Help:      "Sum of booking amounts included in completed reports.",
		}, []string{"type"}),
		paymentsSettled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_settled_total",
			Help:      "Bookings marked paid, by source (sync, check, callback).",
		}, []string{"source"}),
		statsCacheLookup: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stats_cache_lookups_total",
			Help:      "Stats cache lookups by result.",
		}, []string{"result"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.reportsTotal,
		m.reportDuration,
		m.reportAmount,
		m.paymentsSettled,
		m.statsCacheLookup,
	)
	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveReportDuration records how long a generation took
func (m *Metrics) ObserveReportDuration(reportType string, d time.Duration) {
	if m == nil {
		return
	}
	m.reportDuration.WithLabelValues(reportType).Observe(d.Seconds())
}

// AddPaymentsSettled counts bookings marked paid
func (m *Metrics) AddPaymentsSettled(source string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.paymentsSettled.WithLabelValues(source).Add(float64(n))
}

// StatsCacheLookup counts a cache hit or miss
func (m *Metrics) StatsCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.statsCacheLookup.WithLabelValues(result).Inc()
}

// Handle counts report lifecycle events
func (m *Metrics) Handle(_ context.Context, event shared.DomainEvent) error {
	if m == nil {
		return nil
	}
	switch e := event.(type) {
	case *report.CompletedEvent:
		m.reportsTotal.WithLabelValues(string(e.ReportType), string(e.Period), string(report.StatusCompleted)).Inc()
		m.reportAmount.WithLabelValues(string(e.ReportType)).Add(e.Summary.TotalAmount)
	case *report.FailedEvent:
		m.reportsTotal.WithLabelValues(string(e.ReportType), string(e.Period), string(report.StatusFailed)).Inc()
	}
	return nil
}

// EventTypes implements shared.EventHandler
func (m *Metrics) EventTypes() []string {
	return []string{report.EventTypeReportCompleted, report.EventTypeReportFailed}
}

var _ shared.EventHandler = (*Metrics)(nil)
