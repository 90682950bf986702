package handlers

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/koti-agri/koti-backend/internal/services"
	"github.com/koti-agri/koti-backend/internal/utils"
)

// WhatsAppHandler handles WhatsApp webhook requests
type WhatsAppHandler struct {
	bot    *services.Chatbot
	sender services.MessageSender
	log    *slog.Logger
}

// NewWhatsAppHandler creates a new WhatsApp handler. sender may be nil, in
// which case replies are only logged.
func NewWhatsAppHandler(bot *services.Chatbot, sender services.MessageSender) *WhatsAppHandler {
	return &WhatsAppHandler{
		bot:    bot,
		sender: sender,
		log:    slog.Default().With("component", "whatsapp"),
	}
}

// TwilioWebhookPayload represents incoming WhatsApp message from Twilio
type TwilioWebhookPayload struct {
	MessageSid  string `form:"MessageSid"`
	AccountSid  string `form:"AccountSid"`
	From        string `form:"From"` // whatsapp:+919876543210
	To          string `form:"To"`
	Body        string `form:"Body"`
	NumMedia    string `form:"NumMedia"`
	ProfileName string `form:"ProfileName"`
}

// SessionIDForPhone maps a phone number to a stable session id so a farmer
// keeps one session across messages.
func SessionIDForPhone(phone string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("whatsapp:"+phone)).String()
}

// HandleWebhook processes incoming WhatsApp messages
func (h *WhatsAppHandler) HandleWebhook(c *fiber.Ctx) error {
	var payload TwilioWebhookPayload
	if err := c.BodyParser(&payload); err != nil {
		h.log.Warn("error parsing webhook", "error", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid webhook payload",
		})
	}

	// Status callbacks carry no body
	if payload.Body == "" || payload.From == "" {
		return c.SendStatus(fiber.StatusOK)
	}

	from := strings.TrimPrefix(payload.From, "whatsapp:")
	h.log.Info("WhatsApp message received", "from", from, "message", utils.Truncate(payload.Body, 50))

	reply := h.bot.ProcessQuery(c.UserContext(), payload.Body, SessionIDForPhone(from))
	h.deliver(from, reply.Response)

	return c.SendStatus(fiber.StatusOK)
}

func (h *WhatsAppHandler) deliver(to, message string) {
	if h.sender == nil {
		h.log.Info("reply not sent, Twilio not configured", "to", to, "reply", utils.Truncate(message, 80))
		return
	}
	if err := h.sender.SendWhatsAppMessage(to, message); err != nil {
		h.log.Error("failed to send WhatsApp reply", "to", to, "error", err)
	}
}
