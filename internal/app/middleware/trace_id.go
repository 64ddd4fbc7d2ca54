package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"loanflow/internal/pkg/logger"
)

const TraceIDHeader = "X-Trace-Id"

// AttachTraceID puts a per-request trace ID on the request context so every
// log line for the request carries it. An incoming header wins over a fresh ID.
func AttachTraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		ctx := logger.WithTraceID(c.Request.Context(), traceID)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(TraceIDHeader, traceID)
		c.Next()
	}
}
