package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/toolscout/backend/logging"
)

// StatsMiddleware tracks visitors and per-endpoint request statistics.
func StatsMiddleware(stats *logging.Statistics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		// Track unique visitor by real IP
		stats.TrackVisitor(c.ClientIP())

		c.Next()

		hasError := c.Writer.Status() >= 400
		switch {
		case c.Request.URL.Path == "/api/audit" && c.Request.Method == "POST":
			loadTime := float64(time.Since(start).Milliseconds())
			stats.TrackAudit(c.GetString("auditDomain"), loadTime, hasError)
		case c.Request.URL.Path == "/api/pricing/extract" && c.Request.Method == "POST":
			stats.TrackExtraction(hasError)
		}

		// Periodically save statistics (every 100 audit requests)
		if total := stats.GetStatistics()["totalAudits"].(int); total > 0 && total%100 == 0 {
			go stats.Save() // Save asynchronously to not block the request
		}
	}
}
