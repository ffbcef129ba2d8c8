package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds the Prometheus collectors of the API server.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	UploadBytesTotal *prometheus.CounterVec
	UploadsTotal     *prometheus.CounterVec

	ImportedTotal *prometheus.CounterVec
	SkippedTotal  *prometheus.CounterVec

	LoginAttemptsTotal *prometheus.CounterVec
	WebsocketClients   prometheus.Gauge
}

// NewMetrics creates and registers the collectors once per process.
//
// Metrics:
//   - inara_http_requests_total{method,route,status}
//   - inara_http_request_duration_seconds{method,route}
//   - inara_upload_bytes_total{prefix}
//   - inara_uploads_total{prefix}
//   - inara_import_records_total{kind}
//   - inara_import_skipped_total{kind}
//   - inara_login_attempts_total{result}
//   - inara_websocket_clients
func NewMetrics() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			RequestsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inara_http_requests_total",
					Help: "Total number of HTTP requests handled",
				},
				[]string{"method", "route", "status"},
			),

			RequestDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "inara_http_request_duration_seconds",
					Help:    "Duration of HTTP requests in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"method", "route"},
			),

			UploadBytesTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inara_upload_bytes_total",
					Help: "Total bytes written to file storage",
				},
				[]string{"prefix"},
			),

			UploadsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inara_uploads_total",
					Help: "Total number of files written to file storage",
				},
				[]string{"prefix"},
			),

			ImportedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inara_import_records_total",
					Help: "Records created by the bulk text importers",
				},
				[]string{"kind"}, // "lessons", "questions", "objectives"
			),

			SkippedTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inara_import_skipped_total",
					Help: "Malformed blocks skipped by the bulk text importers",
				},
				[]string{"kind"},
			),

			LoginAttemptsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "inara_login_attempts_total",
					Help: "Login attempts by result",
				},
				[]string{"result"}, // "success", "failure", "throttled"
			),

			WebsocketClients: promauto.NewGauge(
				prometheus.GaugeOpts{
					Name: "inara_websocket_clients",
					Help: "Currently connected notification websocket clients",
				},
			),
		}
	})

	return globalMetrics
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordUpload records a stored file.
func (m *Metrics) RecordUpload(prefix string, size int64) {
	m.UploadsTotal.WithLabelValues(prefix).Inc()
	m.UploadBytesTotal.WithLabelValues(prefix).Add(float64(size))
}

// RecordImport records the outcome of one bulk import.
func (m *Metrics) RecordImport(kind string, imported, skipped int) {
	m.ImportedTotal.WithLabelValues(kind).Add(float64(imported))
	m.SkippedTotal.WithLabelValues(kind).Add(float64(skipped))
}

// RecordLogin records a login attempt result.
func (m *Metrics) RecordLogin(result string) {
	m.LoginAttemptsTotal.WithLabelValues(result).Inc()
}
