package services

import (
	"context"
	"errors"

	"github.com/koti-agri/koti-backend/internal/models"
)

// ErrNoRemoteTranslator is returned by translators without a hosted backend
var ErrNoRemoteTranslator = errors.New("no remote translator configured")

// Translator is a detection and translation backend
type Translator interface {
	Name() string
	// Remote reports whether calls leave the process
	Remote() bool
	Detect(ctx context.Context, text string) (string, error)
	Translate(ctx context.Context, text string, from, to models.Language) (string, error)
}

// HeuristicTranslator is used when no translation credential is configured.
// Every call reports ErrNoRemoteTranslator so callers fall back to local
// detection and identity translation.
type HeuristicTranslator struct{}

func NewHeuristicTranslator() *HeuristicTranslator {
	return &HeuristicTranslator{}
}

func (HeuristicTranslator) Name() string { return "heuristic" }

func (HeuristicTranslator) Remote() bool { return false }

func (HeuristicTranslator) Detect(context.Context, string) (string, error) {
	return "", ErrNoRemoteTranslator
}

func (HeuristicTranslator) Translate(context.Context, string, models.Language, models.Language) (string, error) {
	return "", ErrNoRemoteTranslator
}
