package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"pmrs/pkg/metrics"
)

// Metrics records per-request counters and latency. The route template
// (c.FullPath) is used instead of the raw URL to keep label cardinality
// bounded.
func Metrics(m *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.InFlightGauge.Inc()
		t0 := time.Now()
		c.Next()
		m.InFlightGauge.Dec()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		m.RequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(t0).Seconds())
	}
}
