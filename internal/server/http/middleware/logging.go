package middleware

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs information about incoming requests using slog.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", latency),
		}
		if id := c.Param("id"); id != "" {
			key := "order_id"
			if strings.HasPrefix(c.FullPath(), "/api/admin/promos") {
				key = "promo_id"
			}
			attrs = append(attrs, slog.String(key, id))
		}
		logger.Info("http request", attrs...)
	}
}
