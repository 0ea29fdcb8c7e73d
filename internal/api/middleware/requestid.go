package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request identifier in and out.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with an identifier so log lines and
// responses can be correlated. A client-supplied ID is kept as-is.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set("request_id", id)
		c.Writer.Header().Set(RequestIDHeader, id)

		c.Next()
	}
}
