package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLogger logs every request, escalating the level with the response
// class: info below 400, warn below 500, error above.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		t0 := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.String("remote_addr", c.ClientIP()),
			zap.String("request_id", GetRequestID(c)),
			zap.Duration("took", time.Since(t0)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch {
		case status < 400:
			log.Info("request", fields...)
		case status < 500:
			log.Warn("request", fields...)
		default:
			log.Error("request", fields...)
		}
	}
}
