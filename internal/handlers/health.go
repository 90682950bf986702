package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ComponentCheck reports the state of one dependency for the health payload
type ComponentCheck func() string

// HealthHandler handles health check requests
type HealthHandler struct {
	Version    string
	generator  func() bool
	components map[string]ComponentCheck
}

// NewHealthHandler creates a new health handler. generatorReady decides the
// overall status; the other components are informational.
func NewHealthHandler(version string, generatorReady func() bool, components map[string]ComponentCheck) *HealthHandler {
	return &HealthHandler{
		Version:    version,
		generator:  generatorReady,
		components: components,
	}
}

// Check returns the health status of the service
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	status := "healthy"
	code := fiber.StatusOK

	components := fiber.Map{
		"chatbot":          "healthy",
		"translator":       "healthy",
		"answer_generator": "healthy",
	}
	for name, check := range h.components {
		components[name] = check()
	}

	if h.generator == nil || !h.generator() {
		status = "unhealthy"
		code = fiber.StatusServiceUnavailable
		components["answer_generator"] = "missing_api_key"
	}

	return c.Status(code).JSON(fiber.Map{
		"status":     status,
		"timestamp":  time.Now(),
		"version":    h.Version,
		"components": components,
	})
}
