package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var requestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "escala_api_request_duration_seconds",
		Help:    "Latency of API requests by method, route and status.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"method", "route", "status"},
)

// RegisterMetrics registers the HTTP collectors with Prometheus.
// Call once at startup.
func RegisterMetrics() {
	prometheus.MustRegister(requestDuration)
}

// Metrics observes per-request latency, labeled by the matched route
// pattern rather than the raw path to keep cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		requestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
