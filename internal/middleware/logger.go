package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const headerRequestID = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or assigns a new one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(headerRequestID, id)
		c.Next()
	}
}

// ErrorLogger logs failed requests and recovers from panics.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				requestEntry(c, start).
					WithField("stack", string(debug.Stack())).
					WithError(err).
					Error("panic")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "internal_error",
						"message": "Internal server error",
					},
				})
				return
			}

			status := c.Writer.Status()
			entry := requestEntry(c, start)
			switch {
			case len(c.Errors) > 0:
				for _, err := range c.Errors {
					entry.WithError(err.Err).Error("request error")
				}
			case status >= http.StatusInternalServerError:
				entry.Error("request failed")
			case status >= http.StatusBadRequest:
				entry.Debug("request rejected")
			default:
				entry.Debug("request served")
			}
		}()

		c.Next()
	}
}

func requestEntry(c *gin.Context, start time.Time) *log.Entry {
	return log.WithFields(log.Fields{
		"status":     c.Writer.Status(),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"query":      c.Request.URL.RawQuery,
		"client_ip":  c.ClientIP(),
		"user_id":    c.GetString(ctxUserID),
		"request_id": c.GetString("request_id"),
		"latency":    time.Since(start),
	})
}
