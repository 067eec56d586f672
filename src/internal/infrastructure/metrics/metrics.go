package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kuro"

// Metrics 應用程式指標
//
// 使用獨立 Registry，測試之間不會互相污染。
type Metrics struct {
	registry *prometheus.Registry

	PointsAwarded  prometheus.Counter
	PointsDenied   prometheus.Counter
	PushDispatched *prometheus.CounterVec
	SweepCustomers *prometheus.CounterVec
	HTTPRequests   *prometheus.CounterVec
	HTTPDuration   *prometheus.HistogramVec
}

// New 建立並註冊所有指標
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PointsAwarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "points",
			Name:      "awarded_total",
			Help:      "Points awarded through QR scans.",
		}),
		PointsDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "points",
			Name:      "denied_total",
			Help:      "QR scans rejected by the antifraud cooldown.",
		}),
		PushDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "push",
			Name:      "dispatched_total",
			Help:      "Push notifications attempted, by notification type and outcome.",
		}, []string{"kind", "outcome"}),
		SweepCustomers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "mandatory_sweep",
			Name:      "customers_total",
			Help:      "Customers evaluated by the inactivity sweep, by result.",
		}, []string{"result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.PointsAwarded,
		m.PointsDenied,
		m.PushDispatched,
		m.SweepCustomers,
		m.HTTPRequests,
		m.HTTPDuration,
	)
	return m
}

// Registry 給測試或其他 exporter 使用
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler /metrics
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveSweep 記錄一次召回掃描的統計
func (m *Metrics) ObserveSweep(sent, skipped, failed int) {
	m.SweepCustomers.WithLabelValues("sent").Add(float64(sent))
	m.SweepCustomers.WithLabelValues("skipped").Add(float64(skipped))
	m.SweepCustomers.WithLabelValues("failed").Add(float64(failed))
}

// GinMiddleware 以路由樣板（非實際路徑）作為 label，避免 label 爆量
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
