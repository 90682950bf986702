package routes

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/koti-agri/koti-backend/internal/config"
	"github.com/koti-agri/koti-backend/internal/handlers"
	"github.com/koti-agri/koti-backend/internal/middleware"
	"github.com/koti-agri/koti-backend/internal/models"
	"github.com/koti-agri/koti-backend/internal/services"
)

// Dependencies are the constructed services the HTTP layer needs
type Dependencies struct {
	Bot     *services.Chatbot
	Sender  services.MessageSender
	Sweeper middleware.Sweeper
	Health  *handlers.HealthHandler
}

// NewApp builds the fiber app with the shared middleware stack and all routes
func NewApp(cfg *config.Config, deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Koti Backend v" + config.Version,
		ErrorHandler: errorHandler(deps.Bot),
	})

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.SecurityHeaders())

	SetupRoutes(app, cfg, deps)
	return app
}

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, cfg *config.Config, deps Dependencies) {
	chat := handlers.NewChatHandler(deps.Bot)
	whatsapp := handlers.NewWhatsAppHandler(deps.Bot, deps.Sender)
	spa := handlers.NewSPAHandler(cfg.StaticDir)

	// Every request gives the session sweeper a chance to run
	if deps.Sweeper != nil {
		app.Use(middleware.SweepSessions(deps.Sweeper))
	}

	// API routes
	api := app.Group("/api", cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type, Authorization",
	}))
	api.Post("/chat", chat.Chat)
	api.Get("/welcome", chat.Welcome)
	api.Get("/session/info", chat.SessionInfo)
	api.Get("/stats", chat.Stats)
	api.Get("/health", deps.Health.Check)

	// Legacy direct generation
	app.Post("/generate", chat.Generate)

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")
	if cfg.IsDevelopment() || cfg.DisableWebhookValidation {
		slog.Warn("WhatsApp webhook signature validation DISABLED")
		webhooks.Post("/whatsapp", whatsapp.HandleWebhook)
	} else {
		webhooks.Post("/whatsapp", middleware.ValidateTwilioSignature(cfg.TwilioAuthToken), whatsapp.HandleWebhook)
	}

	// Static chat page, then the SPA / JSON 404 fallback
	app.Static("/", cfg.StaticDir)
	app.Use(spa.Fallback)
}

func errorHandler(bot *services.Chatbot) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		if code >= fiber.StatusInternalServerError {
			slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}

		if !handlers.IsAPIPath(c.Path()) {
			return c.Status(code).SendString(err.Error())
		}

		body := fiber.Map{
			"error":  err.Error(),
			"status": models.StatusError,
		}
		if code >= fiber.StatusInternalServerError {
			body["error"] = "Internal server error"
			if bot != nil {
				body["message"] = bot.Catalog().Pack(bot.Catalog().Primary).Error
			}
		}
		return c.Status(code).JSON(body)
	}
}
