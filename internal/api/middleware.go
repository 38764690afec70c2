package api

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/tennis-league-backend/internal/auth"
)

// RequestLogger logs method, route, status and latency of every request.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if userID := auth.GetUserID(c); userID != "" {
			attrs = append(attrs, slog.String("user_id", userID))
		}

		logger.LogAttrs(c.Request.Context(), level, "request", attrs...)
	}
}
