package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoggerMiddleware logs one line per request, tagged with the request ID and
// the business it acted on. 5xx causes recorded with c.Error follow it.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Reuse the caller's request ID so POS retries can be traced
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		short := requestID
		if len(short) > 8 {
			short = short[:8]
		}

		log.Printf("[%s] %s | %d | %v | %s | %s | business=%s",
			short,
			c.Request.Method,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
			path,
			businessLabel(c),
		)

		for _, e := range c.Errors {
			log.Printf("[%s] Error: %v", short, e.Err)
		}
	}
}

func businessLabel(c *gin.Context) string {
	if businessID := GetBusinessID(c); businessID != uuid.Nil {
		return businessID.String()
	}
	return "-"
}
