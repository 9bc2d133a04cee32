package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/edusmart-backend/internal/platform/ctxutil"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

// Probe routes hit every few seconds; successful calls are not logged.
var quietRoutes = map[string]bool{
	"/healthcheck": true,
	"/metrics":     true,
}

const slowRequest = 2 * time.Second

// RequestLogger writes one access-log line per request, after the handler
// chain has run. Level follows the outcome: 5xx error, 4xx or slow warn.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if log == nil {
			return
		}

		route := c.FullPath()
		status := c.Writer.Status()
		if quietRoutes[route] && status < 400 {
			return
		}
		if route == "" {
			route = c.Request.URL.Path
		}
		elapsed := time.Since(start)

		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", elapsed.Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		fields = append(fields, requestIdentity(c)...)
		if errs := c.Errors.ByType(gin.ErrorTypeAny); len(errs) > 0 {
			fields = append(fields, "error", errs.String())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request failed", fields...)
		case status >= 400:
			log.Warn("HTTP request rejected", fields...)
		case elapsed >= slowRequest:
			log.Warn("HTTP request slow", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

func requestIdentity(c *gin.Context) []interface{} {
	var out []interface{}
	if td := ctxutil.GetTraceData(c.Request.Context()); td != nil {
		if td.TraceID != "" {
			out = append(out, "trace_id", td.TraceID)
		}
		if td.RequestID != "" && td.RequestID != td.TraceID {
			out = append(out, "request_id", td.RequestID)
		}
	}
	if rd := ctxutil.GetRequestData(c.Request.Context()); rd != nil && rd.UserID != uuid.Nil {
		out = append(out, "user_id", rd.UserID.String())
	}
	return out
}
