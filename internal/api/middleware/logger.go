package middleware

import (
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs requests but ignores "broken pipe" errors caused by client disconnects
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next() // Process the request

		// 1. Check if there are any errors
		if len(c.Errors) > 0 {
			for _, e := range c.Errors {
				// Check if the error is a network "broken pipe" or "connection reset"
				if ne, ok := e.Err.(*net.OpError); ok {
					if se, ok := ne.Err.(*os.SyscallError); ok {
						errMsg := strings.ToLower(se.Error())
						if strings.Contains(errMsg, "broken pipe") ||
							strings.Contains(errMsg, "connection reset by peer") {
							return
						}
					}
				}
			}
		}

		// 2. If it wasn't a broken pipe, log the request normally
		latency := time.Since(start)
		statusCode := c.Writer.Status()
		requestID := c.GetString("request_id")

		if query != "" {
			path = path + "?" + query
		}

		fmt.Printf("[API] %v | %3d | %13v | %s | %-7s %#v\n",
			time.Now().Format("2006/01/02 - 15:04:05"),
			statusCode,
			latency,
			requestID,
			c.Request.Method,
			path,
		)
	}
}
