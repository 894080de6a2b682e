package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// PhoneRateLimit caps attempts per phone number (falling back to client IP)
// for credential-sensitive endpoints such as login and send-otp. The counter
// lives in redis with a one-minute window; cache errors fail open so an
// unhealthy redis does not lock everyone out.
func PhoneRateLimit(cache *redis.Client, maxPerMin int) fiber.Handler {
	if maxPerMin <= 0 {
		maxPerMin = 5
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}
		var req struct {
			Phone string `json:"phoneNumber"`
			Email string `json:"email"`
		}
		_ = c.BodyParser(&req)
		who := strings.TrimSpace(req.Phone)
		if who == "" {
			who = strings.TrimSpace(req.Email)
		}
		if who == "" {
			who = c.IP()
		}
		key := "rl:" + c.Path() + ":" + who
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err == nil && cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Minute)
		}
		if err != nil {
			return c.Next()
		}
		if cnt > int64(maxPerMin) {
			return fiber.NewError(http.StatusTooManyRequests, "too many attempts, try again later")
		}
		return c.Next()
	}
}
