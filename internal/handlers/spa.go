package handlers

import (
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/koti-agri/koti-backend/internal/models"
)

// SPAHandler serves the single-page chat UI and the JSON 404 for the API
type SPAHandler struct {
	indexFile string
}

func NewSPAHandler(staticDir string) *SPAHandler {
	return &SPAHandler{indexFile: filepath.Join(staticDir, "index.html")}
}

// Fallback answers every route nothing else matched. Unknown API routes get
// a JSON 404, everything else gets index.html for client-side routing.
func (h *SPAHandler) Fallback(c *fiber.Ctx) error {
	if IsAPIPath(c.Path()) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  "API endpoint not found",
			"status": models.StatusError,
		})
	}
	return c.SendFile(h.indexFile)
}

// IsAPIPath reports whether path belongs to the JSON API
func IsAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/") || path == "/generate"
}
