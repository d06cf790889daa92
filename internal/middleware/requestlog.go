package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
)

// RequestLogWriter defines how request log records are persisted.
type RequestLogWriter interface {
	WriteRequestLog(method, path string, status int, durationMS int64, ip, userAgent string) error
}

// RequestLog persists one row per request, feeding the activity log endpoint.
func RequestLog(writer RequestLogWriter) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		// Capture request data before handler execution (Fiber reuses context objects)
		method := c.Method()
		path := c.Path()
		ip := c.IP()
		userAgent := c.Get("User-Agent")

		err := c.Next()

		status := c.Response().StatusCode()
		durationMS := time.Since(start).Milliseconds()

		// Write asynchronously — all values are captured, safe to use in goroutine
		go func() {
			if writeErr := writer.WriteRequestLog(method, path, status, durationMS, ip, userAgent); writeErr != nil {
				slog.Error("failed to write request log", "error", writeErr)
			}
		}()

		return err
	}
}
