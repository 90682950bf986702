package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode"

	"github.com/koti-agri/koti-backend/internal/models"
)

// LanguageProcessor detects the user's language and moves text between it
// and the working language the generator is prompted in.
type LanguageProcessor struct {
	catalog    *Catalog
	translator Translator
	working    models.Language
	script     *unicode.RangeTable
	markers    map[string]struct{}
	log        *slog.Logger
}

func NewLanguageProcessor(catalog *Catalog, translator Translator, working models.Language) *LanguageProcessor {
	if translator == nil {
		translator = NewHeuristicTranslator()
	}
	if !catalog.Supports(working) {
		working = catalog.Primary
	}

	primary := catalog.Pack(catalog.Primary)
	markers := make(map[string]struct{}, len(primary.Markers))
	for _, m := range primary.Markers {
		markers[strings.ToLower(m)] = struct{}{}
	}

	return &LanguageProcessor{
		catalog:    catalog,
		translator: translator,
		working:    working,
		script:     unicode.Scripts[primary.Script],
		markers:    markers,
		log:        slog.Default().With("component", "language_processor"),
	}
}

// WorkingLanguage is the language answers are generated in
func (p *LanguageProcessor) WorkingLanguage() models.Language {
	return p.working
}

// TranslatorName identifies the active translation backend
func (p *LanguageProcessor) TranslatorName() string {
	return p.translator.Name()
}

// DetectLocal classifies text without leaving the process
func (p *LanguageProcessor) DetectLocal(text string) models.Language {
	if strings.TrimSpace(text) == "" || p.looksPrimary(text) {
		return p.catalog.Primary
	}
	return p.catalog.Secondary
}

// Detect classifies text as the primary or secondary language. The remote
// detector is consulted only when local evidence is absent.
func (p *LanguageProcessor) Detect(ctx context.Context, text string) models.Language {
	if strings.TrimSpace(text) == "" || p.looksPrimary(text) {
		return p.catalog.Primary
	}
	if !p.translator.Remote() {
		return p.catalog.Secondary
	}

	code, err := p.translator.Detect(ctx, text)
	if err != nil {
		if !errors.Is(err, ErrNoRemoteTranslator) {
			p.log.Warn("remote language detection failed", "error", err)
		}
		return p.catalog.Secondary
	}
	return p.mapCode(code)
}

// Translate returns text in the target language. It never fails: any
// problem yields the input unchanged.
func (p *LanguageProcessor) Translate(ctx context.Context, text string, from, to models.Language) string {
	if strings.TrimSpace(text) == "" || from == to || !p.translator.Remote() {
		return text
	}
	if p.Detect(ctx, text) == to {
		return text
	}

	out, err := p.translator.Translate(ctx, text, from, to)
	if err != nil {
		p.log.Warn("translation failed, returning original text", "from", from, "to", to, "error", err)
		return text
	}
	if strings.TrimSpace(out) == "" {
		return text
	}
	return out
}

// ToWorking brings a query in the detected language into the working language
func (p *LanguageProcessor) ToWorking(ctx context.Context, text string, detected models.Language) string {
	return p.Translate(ctx, text, detected, p.working)
}

// ProcessResponse brings a working-language answer into the user's language
func (p *LanguageProcessor) ProcessResponse(ctx context.Context, text string, target models.Language) string {
	return p.Translate(ctx, text, p.working, target)
}

func (p *LanguageProcessor) looksPrimary(text string) bool {
	if p.script != nil {
		for _, r := range text {
			if unicode.Is(p.script, r) {
				return true
			}
		}
	}
	if len(p.markers) == 0 {
		return false
	}
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsMark(r)
	})
	for _, w := range words {
		if _, ok := p.markers[w]; ok {
			return true
		}
	}
	return false
}

func (p *LanguageProcessor) mapCode(code string) models.Language {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	primary := p.catalog.Pack(p.catalog.Primary)
	if models.Language(code) == p.catalog.Primary {
		return p.catalog.Primary
	}
	for _, rel := range primary.Related {
		if models.Language(code) == rel {
			return p.catalog.Primary
		}
	}
	return p.catalog.Secondary
}
