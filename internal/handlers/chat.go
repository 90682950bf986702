package handlers

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/koti-agri/koti-backend/internal/models"
	"github.com/koti-agri/koti-backend/internal/services"
)

// ChatHandler serves the JSON chat API
type ChatHandler struct {
	bot      *services.Chatbot
	validate *validator.Validate
	log      *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(bot *services.Chatbot) *ChatHandler {
	return &ChatHandler{
		bot:      bot,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      slog.Default().With("component", "chat_api"),
	}
}

// Chat handles POST /api/chat
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "No data provided",
			"status": models.StatusError,
		})
	}

	req.Message = strings.TrimSpace(req.Message)
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  requestError(err, "Empty message"),
			"status": models.StatusError,
		})
	}

	hint := models.Language(strings.ToLower(strings.TrimSpace(string(req.Language))))
	reply := h.bot.ProcessQueryIn(c.UserContext(), req.Message, req.SessionID, hint)
	h.log.Info("chat query processed", "session_id", reply.SessionID, "status", reply.Status, "language", reply.Language)

	return c.JSON(models.ChatResponse{
		Answer:    reply.Response,
		Language:  reply.Language,
		Status:    reply.Status,
		SessionID: reply.SessionID,
		Timestamp: reply.Timestamp,
	})
}

// Welcome handles GET /api/welcome
func (h *ChatHandler) Welcome(c *fiber.Ctx) error {
	lang := models.Language(strings.ToLower(c.Query("lang", h.bot.Catalog().Primary.String())))
	reply := h.bot.Welcome(c.Query("session_id"), lang)

	return c.JSON(fiber.Map{
		"message":    reply.Response,
		"language":   reply.Language,
		"status":     reply.Status,
		"session_id": reply.SessionID,
		"timestamp":  reply.Timestamp,
	})
}

// SessionInfo handles GET /api/session/info
func (h *ChatHandler) SessionInfo(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Query("session_id"))
	if id == "" {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  "No session found",
			"status": models.StatusError,
		})
	}

	info, err := h.bot.SessionInfo(id)
	if errors.Is(err, services.ErrSessionNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  "Session not found",
			"status": models.StatusError,
		})
	}
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"session_info": info,
		"status":       models.StatusSuccess,
	})
}

// Stats handles GET /api/stats
func (h *ChatHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"stats":     h.bot.Stats(),
		"status":    models.StatusSuccess,
		"timestamp": time.Now(),
	})
}

// Generate handles the legacy POST /generate endpoint
func (h *ChatHandler) Generate(c *fiber.Ctx) error {
	if !strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Content-Type must be application/json",
		})
	}

	var req models.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid JSON body",
		})
	}

	req.Prompt = strings.TrimSpace(req.Prompt)
	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": requestError(err, "No prompt provided"),
		})
	}

	return c.JSON(fiber.Map{
		"response": h.bot.GenerateDirect(c.UserContext(), req.Prompt),
	})
}

// requestError turns validator output into a short client message
func requestError(err error, requiredMsg string) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid request"
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return requiredMsg
	}
	return "Invalid field " + strings.ToLower(fe.Field()) + ": " + fe.Tag()
}
