// Package middleware provides the gin middleware shared by every route.
package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// HeaderRequestID carries the request id in both directions.
	HeaderRequestID = "X-Request-ID"
	// ContextRequestID is the gin context key holding the request id.
	ContextRequestID = "request_id"
)

// RequestID reuses the incoming X-Request-ID or generates a new UUID,
// stores it in the context and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger logs one line per request with slog.
// Paths in skip (health checks) are not logged.
func RequestLogger(skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if _, ok := skipped[c.Request.URL.Path]; ok {
			return
		}

		status := c.Writer.Status()
		attrs := []slog.Attr{
			slog.String("request_id", c.GetString(ContextRequestID)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("remote_addr", c.ClientIP()),
		}

		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("error", c.Errors.String()))
		}
		slog.LogAttrs(c.Request.Context(), level, "request", attrs...)
	}
}
