package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/leofalp/wfextract/providers/observability"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// requestID injects an X-Request-ID header into the request and response.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// requestLogger logs each request with method, path, status and latency.
func requestLogger(observer observability.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if observer == nil {
			return
		}
		observer.Info(c.Request.Context(), "http request",
			observability.String(observability.AttrHTTPRequestID, c.GetString(requestIDKey)),
			observability.String(observability.AttrHTTPMethod, c.Request.Method),
			observability.String(observability.AttrHTTPPath, c.Request.URL.Path),
			observability.Int(observability.AttrHTTPStatus, c.Writer.Status()),
			observability.Duration(observability.AttrDuration, time.Since(start)),
		)
	}
}
