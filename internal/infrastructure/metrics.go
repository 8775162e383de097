package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the dataset pipeline counters and gauges. Each Metrics
// value carries its own registry so instances never collide.
type Metrics struct {
	registry *prometheus.Registry

	DatasetLoads    *prometheus.CounterVec
	DatasetSize     prometheus.Gauge
	ExportsTotal    *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the application metrics.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(registry)
	return &Metrics{
		registry: registry,
		DatasetLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "opotracker_dataset_loads_total",
			Help: "Dataset load attempts partitioned by result.",
		}, []string{"result"}),
		DatasetSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "opotracker_dataset_candidates",
			Help: "Number of candidates in the current dataset snapshot.",
		}),
		ExportsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "opotracker_exports_total",
			Help: "Dataset exports partitioned by format.",
		}, []string{"format"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "opotracker_http_requests_total",
			Help: "HTTP requests partitioned by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "opotracker_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// ObserveLoad records the outcome of a dataset load attempt.
func (m *Metrics) ObserveLoad(err error, size int) {
	if err != nil {
		m.DatasetLoads.WithLabelValues("error").Inc()
		return
	}
	m.DatasetLoads.WithLabelValues("success").Inc()
	m.DatasetSize.Set(float64(size))
}

// Handler returns the /metrics HTTP handler for this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
