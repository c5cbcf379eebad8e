package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimit applies a fixed-window limit per client IP, backed by Redis.
// The limiter fails open: with no Redis client, or when Redis errors,
// requests pass through.
func RateLimit(client *redis.Client, limit int, window time.Duration, log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if client == nil {
			return c.Next()
		}

		ctx := c.UserContext()
		key := "rate_limit:" + c.IP()

		count, err := client.Incr(ctx, key).Result()
		if err != nil {
			log.Warn("rate limiter unavailable", zap.Error(err))
			return c.Next()
		}

		// First hit in this window starts the clock.
		if count == 1 {
			client.Expire(ctx, key, window)
		}

		if count > int64(limit) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests",
			})
		}

		return c.Next()
	}
}
