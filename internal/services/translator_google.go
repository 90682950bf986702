package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/option"
	translate "google.golang.org/api/translate/v2"

	"github.com/koti-agri/koti-backend/internal/models"
)

const DefaultTranslationTimeout = 10 * time.Second

// GoogleTranslator talks to Cloud Translation v2
type GoogleTranslator struct {
	svc     *translate.Service
	timeout time.Duration
}

// NewGoogleTranslator builds the client. Pass option.WithAPIKey in
// production; tests point option.WithEndpoint at a local server.
func NewGoogleTranslator(ctx context.Context, timeout time.Duration, opts ...option.ClientOption) (*GoogleTranslator, error) {
	svc, err := translate.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create translate service: %w", err)
	}
	if timeout <= 0 {
		timeout = DefaultTranslationTimeout
	}
	return &GoogleTranslator{svc: svc, timeout: timeout}, nil
}

func (g *GoogleTranslator) Name() string { return "google_translate" }

func (g *GoogleTranslator) Remote() bool { return true }

// Detect returns the most likely language code for text
func (g *GoogleTranslator) Detect(ctx context.Context, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.svc.Detections.Detect(&translate.DetectLanguageRequest{
		Q: []string{text},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("detect language: %w", err)
	}
	if len(resp.Detections) == 0 || len(resp.Detections[0]) == 0 {
		return "", errors.New("detect language: empty response")
	}
	return resp.Detections[0][0].Language, nil
}

// Translate converts plain text from one language to another
func (g *GoogleTranslator) Translate(ctx context.Context, text string, from, to models.Language) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.svc.Translations.Translate(&translate.TranslateTextRequest{
		Q:      []string{text},
		Source: from.String(),
		Target: to.String(),
		Format: "text",
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("translate %s->%s: %w", from, to, err)
	}
	if len(resp.Translations) == 0 {
		return "", errors.New("translate: empty response")
	}
	return resp.Translations[0].TranslatedText, nil
}
