package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/koti-agri/koti-backend/internal/models"
	"github.com/koti-agri/koti-backend/internal/storage"
	"github.com/koti-agri/koti-backend/internal/utils"
)

// Chatbot runs the query pipeline: validate, detect, topic filter,
// translate in, generate, translate out, log.
type Chatbot struct {
	catalog   *Catalog
	validator *InputValidator
	language  *LanguageProcessor
	generator *AnswerGenerator
	sessions  *SessionManager
	store     storage.ConversationStore
	now       func() time.Time
	log       *slog.Logger
}

func NewChatbot(
	catalog *Catalog,
	validator *InputValidator,
	language *LanguageProcessor,
	generator *AnswerGenerator,
	sessions *SessionManager,
	store storage.ConversationStore,
) *Chatbot {
	return &Chatbot{
		catalog:   catalog,
		validator: validator,
		language:  language,
		generator: generator,
		sessions:  sessions,
		store:     store,
		now:       time.Now,
		log:       slog.Default().With("component", "chatbot"),
	}
}

// Catalog exposes the string tables for handlers that localize their own errors
func (b *Chatbot) Catalog() *Catalog { return b.catalog }

// ProcessQuery answers one user message. It never returns an error; every
// failure is folded into a localized reply with status "error".
func (b *Chatbot) ProcessQuery(ctx context.Context, input, sessionID string) models.Reply {
	return b.ProcessQueryIn(ctx, input, sessionID, "")
}

// ProcessQueryIn is ProcessQuery with a requested reply language. An empty or
// unsupported hint leaves the reply in the detected language.
func (b *Chatbot) ProcessQueryIn(ctx context.Context, input, sessionID string, hint models.Language) (reply models.Reply) {
	sessionID = b.sessions.Ensure(sessionID)
	replyIn := func(detected models.Language) models.Language {
		if hint != "" && b.catalog.Supports(hint) {
			return hint
		}
		return detected
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		b.log.Error("panic while processing query", "session_id", sessionID, "panic", r, "stack", string(debug.Stack()))

		lang := b.safeDetectLocal(input)
		b.record(ctx, sessionID, input, fmt.Sprintf("ERROR: %v", r), lang, b.catalog.IsAgricultureRelated(input))
		out := replyIn(lang)
		reply = b.reply(b.catalog.Pack(out).Error, out, models.StatusError, sessionID, false)
	}()

	text := utils.CleanText(input)

	if ok, reason := b.validator.Validate(text); !ok {
		lang := replyIn(b.language.DetectLocal(text))
		b.log.Warn("invalid input", "session_id", sessionID, "reason", reason)
		return b.reply(b.catalog.Pack(lang).Error, lang, models.StatusError, sessionID, false)
	}

	detected := b.language.Detect(ctx, text)
	b.sessions.RecordInteraction(sessionID, detected)
	out := replyIn(detected)

	if !b.generator.IsAgricultureRelated(text) {
		redirect := b.catalog.Pack(out).Redirect
		b.record(ctx, sessionID, text, redirect, detected, false)
		return b.reply(redirect, out, models.StatusRedirect, sessionID, false)
	}

	b.log.Info("generating response", "session_id", sessionID, "language", detected, "reply_language", out, "query", utils.Truncate(text, 50))

	working := b.language.ToWorking(ctx, text, detected)
	answer := b.generator.generateOnTopic(ctx, working, b.language.WorkingLanguage())
	final := b.language.ProcessResponse(ctx, answer, out)

	b.record(ctx, sessionID, text, final, detected, true)
	return b.reply(final, out, models.StatusSuccess, sessionID, true)
}

// Welcome greets a user in lang and stores it as the session preference.
// Unknown languages fall back to the primary language.
func (b *Chatbot) Welcome(sessionID string, lang models.Language) models.Reply {
	if !b.catalog.Supports(lang) {
		lang = b.catalog.Primary
	}
	s := b.sessions.SetPreferredLanguage(sessionID, lang)

	r := b.reply(b.catalog.Pack(lang).Welcome, lang, models.StatusSuccess, s.SessionID, false)
	r.IsWelcome = true
	return r
}

// GenerateDirect runs the generator on a prompt without session bookkeeping
func (b *Chatbot) GenerateDirect(ctx context.Context, prompt string) string {
	return b.generator.Generate(ctx, utils.CleanText(prompt), b.catalog.Primary)
}

func (b *Chatbot) SessionInfo(sessionID string) (models.Session, error) {
	return b.sessions.Get(sessionID)
}

func (b *Chatbot) Stats() models.SessionStats {
	return b.sessions.GetSessionStats()
}

func (b *Chatbot) CleanupOldSessions(maxAge time.Duration) int {
	return b.sessions.CleanupOldSessions(maxAge)
}

func (b *Chatbot) reply(text string, lang models.Language, status, sessionID string, agri bool) models.Reply {
	return models.Reply{
		Response:             text,
		Language:             lang,
		Status:               status,
		SessionID:            sessionID,
		Timestamp:            b.now(),
		IsAgricultureRelated: agri,
	}
}

func (b *Chatbot) record(ctx context.Context, sessionID, input, output string, lang models.Language, agri bool) {
	if b.store == nil {
		return
	}
	err := b.store.Append(ctx, models.ConversationLog{
		Timestamp:            b.now(),
		SessionID:            sessionID,
		UserInput:            input,
		BotResponse:          output,
		Language:             lang,
		IsAgricultureRelated: agri,
	})
	if err != nil {
		b.log.Error("failed to log conversation", "session_id", sessionID, "store", b.store.Name(), "error", err)
	}
}

func (b *Chatbot) safeDetectLocal(input string) (lang models.Language) {
	defer func() {
		if recover() != nil {
			lang = b.catalog.Primary
		}
	}()
	return b.language.DetectLocal(input)
}
