package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fileview/internal/logging"
)

// LoggerWithWriter logs each HTTP request as one JSON line on w.
// Fields:
// - request_id (taken from context locals set by RequestID middleware)
// - method
// - path
// - status
// - latency (milliseconds, as float)
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(logging.EncoderConfig(loc)),
		zapcore.AddSync(w),
		zapcore.InfoLevel,
	)
	return LoggerWithZap(zap.New(core))
}

// LoggerWithZap logs each HTTP request through l.
func LoggerWithZap(l *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := responseStatus(c, err)
		latency := float64(time.Since(start).Microseconds()) / 1000

		l.Info("http_request",
			zap.String("request_id", GetRequestID(c)),
			zap.String("method", c.Method()),
			// Path only, no query string.
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Float64("latency", latency),
		)

		return err
	}
}
