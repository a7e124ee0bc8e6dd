package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"nerdsociety/internal/pkg/applog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const HeaderRequestID = "X-Request-ID"

// RequestLogger assigns a request id, stores a scoped logrus entry in the
// request context and writes one access log line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set("request_id", reqID)
		c.Writer.Header().Set(HeaderRequestID, reqID)

		entry := logrus.WithFields(logrus.Fields{
			"request_id": reqID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
		})
		c.Request = c.Request.WithContext(applog.ToContext(c.Request.Context(), entry))

		c.Next()

		fields := logrus.Fields{
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}
		if userID := c.GetInt64(ContextUserID); userID != 0 {
			fields["user_id"] = userID
			fields["role"] = c.GetString(ContextRole)
		}

		log := entry.WithFields(fields)
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			log.Error("request completed")
		case c.Writer.Status() >= http.StatusBadRequest:
			log.Warn("request completed")
		default:
			log.Info("request completed")
		}
	}
}

// ErrorLogger logs detailed error information and recovers from panics.
func ErrorLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				applog.FromContext(c.Request.Context()).
					WithError(err).
					WithField("stack", string(debug.Stack())).
					Error("panic recovered")

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "Internal Server Error",
					},
				})
				return
			}

			for _, ginErr := range c.Errors {
				applog.FromContext(c.Request.Context()).
					WithError(ginErr.Err).
					WithField("type", fmt.Sprintf("%v", ginErr.Type)).
					WithField("meta", ginErr.Meta).
					Error("request error")
			}
		}()

		c.Next()
	}
}
