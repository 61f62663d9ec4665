package middlewares

import (
	"strconv"
	"time"

	"github.com/aryanwebd35/food-factory/metrics"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// LoggerMiddleware logs every completed request and records its latency.
func LoggerMiddleware(logger zerolog.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if err != nil {
			// Let the app's error handler write the response so the status is final.
			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		route := c.Route().Path
		if m != nil {
			m.LatencyMS.WithLabelValues(route, strconv.Itoa(status)).Observe(float64(elapsed.Microseconds()) / 1000)
		}

		requestID, _ := c.Locals("requestid").(string)
		event := logger.Info()
		if status >= fiber.StatusInternalServerError {
			event = logger.Error().Err(err)
		}
		event.
			Str("request_id", requestID).
			Str("user_id", UserID(c)).
			Str("method", c.Method()).
			Str("url", c.OriginalURL()).
			Int("status", status).
			Dur("latency", elapsed).
			Msg("request completed")
		return nil
	}
}
