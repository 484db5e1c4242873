package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"contentproof/internal/chain"
)

// RootMessage is the liveness text served on GET /.
const RootMessage = "Backend is running and ready for authentication."

// Pinger checks the credential store. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) PingContext(ctx context.Context) error { return f(ctx) }

// Root godoc
// @Summary Liveness text
// @Tags health
// @Produce plain
// @Success 200 {string} string
// @Router / [get]
func Root() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendString(RootMessage)
	}
}

// HealthCheck godoc
// @Summary Credential store health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} errorPayload
// @Router /health [get]
func HealthCheck(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe answers 200 while the process is up.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ChainStatus godoc
// @Summary Chain connector status
// @Tags health
// @Produce json
// @Success 200 {object} chain.Status
// @Router /api/chain/status [get]
func ChainStatus(st chain.Status) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(st)
	}
}
