package middleware

import "github.com/gofiber/fiber/v2"

// SecurityHeaders sets the browser hardening headers on every response
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderXFrameOptions, "DENY")
		c.Set(fiber.HeaderXXSSProtection, "1; mode=block")
		return c.Next()
	}
}

// Sweeper is run opportunistically on the request path
type Sweeper interface {
	MaybeRun() bool
}

// SweepSessions gives the session sweeper a chance to run on API requests
func SweepSessions(s Sweeper) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()
		s.MaybeRun()
		return err
	}
}
