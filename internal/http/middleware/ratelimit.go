package middleware

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

// Allower decides whether a client may proceed. *ratelimit.Limiter satisfies it.
type Allower interface {
	Allow(ctx context.Context, ip string) bool
}

// RateLimit rejects clients over their budget with 429.
func RateLimit(l Allower) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if l.Allow(c.UserContext(), c.IP()) {
			return c.Next()
		}
		c.Set(fiber.HeaderRetryAfter, "60")
		return reject(c, fiber.StatusTooManyRequests, "RATE_LIMITED", "Too many requests, try again later")
	}
}

// reject writes the standard error body from inside middleware.
func reject(c *fiber.Ctx, status int, code, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"request_id": RequestIDFrom(c),
		"message":    message,
		"error":      fiber.Map{"code": code, "message": message},
	})
}
