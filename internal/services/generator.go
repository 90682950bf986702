package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/koti-agri/koti-backend/internal/models"
	"github.com/koti-agri/koti-backend/internal/utils"
)

// AnswerGenerator produces farming answers in a given language. Generate
// always returns display-ready text and never fails.
type AnswerGenerator struct {
	catalog *Catalog
	model   TextModel
	log     *slog.Logger
}

// NewAnswerGenerator wires the generator. A nil model means the generation
// credential is missing and every on-topic query gets the unavailable message.
func NewAnswerGenerator(catalog *Catalog, model TextModel) *AnswerGenerator {
	return &AnswerGenerator{
		catalog: catalog,
		model:   model,
		log:     slog.Default().With("component", "answer_generator"),
	}
}

// Available reports whether a remote model is configured
func (g *AnswerGenerator) Available() bool {
	return g.model != nil
}

// IsAgricultureRelated applies the topic filter
func (g *AnswerGenerator) IsAgricultureRelated(text string) bool {
	return g.catalog.IsAgricultureRelated(text)
}

// Prompt assembles the persona preamble and the user query
func (g *AnswerGenerator) Prompt(text string, lang models.Language) string {
	return fmt.Sprintf("%s\n\nUser: %s\nKoti:", g.catalog.Pack(lang).Persona, text)
}

// Generate applies the topic filter, then answers in lang
func (g *AnswerGenerator) Generate(ctx context.Context, text string, lang models.Language) string {
	if !g.catalog.IsAgricultureRelated(text) {
		return g.catalog.Pack(lang).Redirect
	}
	return g.generateOnTopic(ctx, text, lang)
}

// generateOnTopic answers a query that already passed the topic filter,
// possibly after translation into lang.
func (g *AnswerGenerator) generateOnTopic(ctx context.Context, text string, lang models.Language) (answer string) {
	pack := g.catalog.Pack(lang)

	if g.model == nil {
		g.log.Warn("generation requested without a configured model")
		return pack.Unavailable
	}

	defer func() {
		if r := recover(); r != nil {
			g.log.Error("panic in model call", "panic", r)
			answer = pack.Apology
		}
	}()

	g.log.Debug("generating answer", "language", lang, "query", utils.Truncate(text, 50))
	out, err := g.model.GenerateText(ctx, g.Prompt(text, lang))
	switch {
	case err == nil && strings.TrimSpace(out) != "":
		return strings.TrimSpace(out)
	case err == nil, errors.Is(err, ErrBlocked), errors.Is(err, ErrEmptyResponse):
		g.log.Warn("no usable model answer, trying canned answers", "error", err)
		if canned, ok := g.catalog.CannedAnswer(text, lang); ok {
			return canned
		}
		return pack.Apology
	default:
		g.log.Error("model call failed", "error", err)
		return pack.Apology
	}
}
