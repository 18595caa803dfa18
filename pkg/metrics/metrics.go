// Package metrics provides Prometheus metrics for the KPI dashboard
// service: HTTP request counters and latencies plus upstream sheet
// fetch timings, since every request pays a fresh upstream fetch.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	sheetFetchDuration *prometheus.HistogramVec
	sheetFetchErrors   *prometheus.CounterVec

	activeSessions prometheus.Gauge
}

func New(namespace string) *Metrics {
	return &Metrics{
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		sheetFetchDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "sheet_fetch_duration_seconds",
			Help:      "Latency of upstream spreadsheet range fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"range"}),
		sheetFetchErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sheet_fetch_errors_total",
			Help:      "Failed upstream spreadsheet fetches by range.",
		}, []string{"range"}),
		activeSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Sessions currently held in the in-memory store.",
		}),
	}
}

func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, path, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

func (m *Metrics) ObserveSheetFetch(rangeName string, duration time.Duration, err error) {
	m.sheetFetchDuration.WithLabelValues(rangeName).Observe(duration.Seconds())
	if err != nil {
		m.sheetFetchErrors.WithLabelValues(rangeName).Inc()
	}
}

func (m *Metrics) SetActiveSessions(n int) {
	m.activeSessions.Set(float64(n))
}

// Handler exposes the default registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.Handler()
}
