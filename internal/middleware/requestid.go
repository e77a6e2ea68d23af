package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Request correlation keys shared across the middleware chain
const (
	HeaderXRequestID = "X-Request-ID"
	ContextRequestID = "request_id"
)

// RequestID assigns every request the identifier its log lines and error
// responses carry. An inbound X-Request-ID is honored only when it
// parses as a UUID; anything else is replaced, so callers cannot inject
// arbitrary strings into the logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(HeaderXRequestID)
		if _, err := uuid.Parse(rid); err != nil {
			rid = uuid.New().String()
		}

		c.Set(ContextRequestID, rid)
		c.Header(HeaderXRequestID, rid)
		c.Next()
	}
}
