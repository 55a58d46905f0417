package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/toolscout/backend/metrics"
)

// ErrorHandler middleware recovers from any panics in downstream handlers.
// Recovered panics are counted on the metrics registry; m may be nil.
func ErrorHandler(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				// Log the error and stack trace
				log.Printf("Panic recovered on %s: %v\nStack trace:\n%s", c.Request.URL.Path, err, debug.Stack())
				m.IncPanicRecovered()

				// Return a 500 error to the client
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "An unexpected error occurred",
				})
				c.Abort()
			}
		}()

		c.Next()
	}
}