package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// whatsAppBodyLimit is Twilio's maximum body length for one message
const whatsAppBodyLimit = 1600

// MessageSender delivers a reply to a chat user outside the HTTP response
type MessageSender interface {
	SendWhatsAppMessage(to string, message string) error
}

type TwilioService struct {
	client *twilio.RestClient
	from   string // Twilio WhatsApp number, e.g. "whatsapp:+14155238886"
	log    *slog.Logger
}

// NewTwilioService creates a new Twilio service instance
func NewTwilioService(accountSid, authToken, from string) (*TwilioService, error) {
	if accountSid == "" || authToken == "" || from == "" {
		return nil, errors.New("missing Twilio credentials")
	}
	if !strings.HasPrefix(from, "whatsapp:") {
		from = "whatsapp:" + from
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &TwilioService{
		client: client,
		from:   from,
		log:    slog.Default().With("component", "twilio"),
	}, nil
}

// SendWhatsAppMessage sends a WhatsApp message via Twilio. Long answers are
// split into several messages on line boundaries.
func (t *TwilioService) SendWhatsAppMessage(to string, message string) error {
	if !strings.HasPrefix(to, "whatsapp:") {
		to = "whatsapp:" + to
	}

	for _, chunk := range SplitMessage(message, whatsAppBodyLimit) {
		params := &twilioApi.CreateMessageParams{}
		params.SetFrom(t.from)
		params.SetTo(to)
		params.SetBody(chunk)

		resp, err := t.client.Api.CreateMessage(params)
		if err != nil {
			t.log.Error("failed to send WhatsApp message", "to", to, "error", err)
			return fmt.Errorf("send whatsapp message: %w", err)
		}
		if resp.Sid != nil {
			t.log.Info("WhatsApp message sent", "sid", *resp.Sid)
		}
	}
	return nil
}

// SplitMessage cuts text into pieces of at most limit runes, preferring
// line breaks as cut points.
func SplitMessage(text string, limit int) []string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, strings.TrimRight(string(runes[:cut]), "\n"))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
