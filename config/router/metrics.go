package router

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	rateLimitedTotal *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	labels := []string{"method", "route", "status"}

	m := &metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		}, labels),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, labels),
		rateLimitedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_rate_limited_total",
			Help: "Requests rejected with 429, by rate limit policy.",
		}, []string{"policy"}),
	}

	reg.MustRegister(m.requestsTotal, m.requestDuration, m.rateLimitedTotal)
	return m
}

func (m *metrics) observe(c *gin.Context, elapsed time.Duration) {
	route := c.FullPath()
	if route == "" {
		route = "unknown"
	}
	status := strconv.Itoa(c.Writer.Status())

	m.requestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
	m.requestDuration.WithLabelValues(c.Request.Method, route, status).Observe(elapsed.Seconds())
}

func (m *metrics) rateLimited(policy string) {
	if m == nil {
		return
	}
	m.rateLimitedTotal.WithLabelValues(policy).Inc()
}

// mountMetrics serves /metrics ahead of the rest of the middleware chain, so
// scrapes are neither rate limited nor logged.
func (routerService *RouterService) mountMetrics() {
	if !routerService.config.MetricsEnabled {
		routerService.logger.Info("Metrics disabled (METRICS_ENABLED=false)")
		return
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	routerService.metricsRegistry = reg
	routerService.metrics = newMetrics(reg)

	routerService.engine.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		routerService.metrics.observe(c, time.Since(start))
	})

	routerService.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	routerService.engine.OPTIONS("/metrics", func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNoContent)
	})

	routerService.logger.Info("Metrics endpoint mounted", "path", "/metrics")
}

// MetricsRegisterer exposes the /metrics registry so domain collectors land on
// the same endpoint. It is nil when metrics are disabled.
func (routerService *RouterService) MetricsRegisterer() prometheus.Registerer {
	if routerService.metricsRegistry == nil {
		return nil
	}
	return routerService.metricsRegistry
}
