package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// LoginRateLimit limits login attempts per account number (falling back to
// the caller's IP) using Redis if available.
func LoginRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next() // no-op without Redis
		}
		var req struct {
			AccountNumber string `json:"accountNumber"`
		}
		_ = c.BodyParser(&req)
		subject := strings.TrimSpace(req.AccountNumber)
		if subject == "" {
			subject = c.IP()
		}
		key := "rl:login:" + subject
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err == nil && cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if err == nil && cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "Too many login attempts. Please try again shortly.")
		}
		return c.Next()
	}
}
