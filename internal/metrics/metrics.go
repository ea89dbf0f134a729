package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route", "status"},
	)

	authRejectionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_rejections_total",
			Help: "Requests rejected by the bearer token gate",
		},
	)

	jwksRefreshesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_jwks_refreshes_total",
			Help: "Issuer key set fetches by source and outcome",
		},
		[]string{"source", "outcome"},
	)
)

// Middleware records request count and latency per route template.
// Unmatched routes are grouped under "unmatched" to keep cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, route, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus exposition format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}

func RecordAuthRejection() {
	authRejectionsTotal.Inc()
}

// RecordJWKSRefresh counts a key set load. source is "cache" or "issuer".
func RecordJWKSRefresh(source string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	jwksRefreshesTotal.WithLabelValues(source, outcome).Inc()
}
