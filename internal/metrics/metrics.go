// Package metrics menyediakan pengumpulan dan publikasi metrik Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector adalah antarmuka pengumpulan metrik.
// Dipakai oleh middleware dan klien layanan eksternal.
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordAuthCall(operation string, success bool)
	RecordStoreCall(operation string, success bool)
	RecordRateLimited(limitType string)
}

// Collector adalah implementasi pengumpul metrik Prometheus.
type Collector struct {
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	authCalls      *prometheus.CounterVec
	storeCalls     *prometheus.CounterVec
	rateLimited    *prometheus.CounterVec
}

// NewCollector membuat Collector baru dan mendaftarkan metrik pada
// registry yang diberikan.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simahasiswa_http_status_total",
			Help: "Jumlah respons per kode status HTTP",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "simahasiswa_request_latency_seconds",
			Help:    "Latensi penanganan request HTTP (detik)",
			Buckets: prometheus.DefBuckets,
		}),
		authCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simahasiswa_auth_calls_total",
			Help: "Jumlah panggilan ke Identity Provider per operasi dan hasil",
		}, []string{"operation", "result"}),
		storeCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simahasiswa_store_calls_total",
			Help: "Jumlah panggilan ke Record Store per operasi dan hasil",
		}, []string{"operation", "result"}),
		rateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "simahasiswa_rate_limited_total",
			Help: "Jumlah request yang ditolak rate limit per jenis",
		}, []string{"limit_type"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.authCalls,
		c.storeCalls,
		c.rateLimited,
	)

	return c
}

// RecordHTTPStatus mencatat kode status HTTP respons.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency mencatat latensi penanganan request.
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordAuthCall mencatat panggilan ke Identity Provider.
func (c *Collector) RecordAuthCall(operation string, success bool) {
	c.authCalls.WithLabelValues(operation, resultLabel(success)).Inc()
}

// RecordStoreCall mencatat panggilan ke Record Store.
func (c *Collector) RecordStoreCall(operation string, success bool) {
	c.storeCalls.WithLabelValues(operation, resultLabel(success)).Inc()
}

// RecordRateLimited mencatat request yang ditolak rate limit.
func (c *Collector) RecordRateLimited(limitType string) {
	c.rateLimited.WithLabelValues(limitType).Inc()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// Handler mengembalikan handler HTTP untuk scrape Prometheus.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Middleware mengembalikan middleware yang mencatat status dan latensi
// setiap request HTTP.
func Middleware(collector MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			collector.RecordHTTPStatus(rec.statusCode)
			collector.RecordRequestLatency(time.Since(start))
		})
	}
}

// statusRecorder merekam status code respons untuk pencatatan metrik.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}
