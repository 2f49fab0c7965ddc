package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"go.uber.org/zap"
)

const (
	defaultRateLimit  = 50
	defaultRateWindow = time.Minute
)

// RateLimiter allows max requests per client within a sliding window.
func RateLimiter(max int, expiration time.Duration) fiber.Handler {
	if max == 0 {
		max = defaultRateLimit
	}
	if expiration == 0 {
		expiration = defaultRateWindow
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: expiration,
		LimitReached: func(c *fiber.Ctx) error {
			return respondError(c, fiber.StatusTooManyRequests, "", "too many requests")
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}

func requestLogger(logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			// logged by the error handler
			return err
		}

		logger.Debug("request handled",
			append(requestFields(c, c.Response().StatusCode()), zap.Duration("took", time.Since(start)))...,
		)
		return nil
	}
}

func requestFields(c *fiber.Ctx, status int) []zap.Field {
	return []zap.Field{
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Int("status", status),
	}
}
