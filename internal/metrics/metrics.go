package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EligibilityEvaluations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_eligibility_evaluations_total",
		Help: "Payment methods evaluated by the eligibility engine, by method and outcome.",
	}, []string{"method", "enabled"})

	ReportsServed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "traffic_reports_served_total",
		Help: "Traffic analysis reports returned, by data source.",
	}, []string{"source"})

	AnalyticsFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "traffic_analytics_fetch_failures_total",
		Help: "External analytics fetches that failed and fell back to simulation.",
	})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route and status.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func RecordEligibility(method string, enabled bool) {
	EligibilityEvaluations.WithLabelValues(method, strconv.FormatBool(enabled)).Inc()
}

// Middleware observes request latency labelled by the matched route.
func Middleware() gin.HandlerFunc {
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
