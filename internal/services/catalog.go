package services

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/koti-agri/koti-backend/internal/models"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// LanguagePack holds every user-facing string for one language
type LanguagePack struct {
	Name        string            `yaml:"name"`
	Script      string            `yaml:"script"`
	Related     []models.Language `yaml:"related"`
	Markers     []string          `yaml:"markers"`
	Persona     string            `yaml:"persona"`
	Welcome     string            `yaml:"welcome"`
	Error       string            `yaml:"error"`
	Redirect    string            `yaml:"redirect"`
	Apology     string            `yaml:"apology"`
	Unavailable string            `yaml:"unavailable"`
	CropAnswer  string            `yaml:"crop_answer"`
}

// CropFact is a canned answer served when any of its keywords appears
type CropFact struct {
	Keywords []string                   `yaml:"keywords"`
	Answers  map[models.Language]string `yaml:"answers"`
}

// Catalog is the static, data-driven configuration of the assistant:
// string tables, keyword lists and the farming knowledge table.
type Catalog struct {
	Primary       models.Language                  `yaml:"primary"`
	Secondary     models.Language                  `yaml:"secondary"`
	Languages     map[models.Language]LanguagePack `yaml:"languages"`
	TopicKeywords []string                         `yaml:"topic_keywords"`
	CropFacts     []CropFact                       `yaml:"crop_facts"`
	Knowledge     models.KnowledgeBase             `yaml:"knowledge"`
}

// LoadCatalog parses the embedded catalog
func LoadCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog decodes and checks a catalog document
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if _, ok := c.Languages[c.Primary]; !ok {
		return nil, fmt.Errorf("catalog: primary language %q has no language pack", c.Primary)
	}
	if _, ok := c.Languages[c.Secondary]; !ok {
		return nil, fmt.Errorf("catalog: secondary language %q has no language pack", c.Secondary)
	}
	for lang, pack := range c.Languages {
		if pack.Script != "" {
			if _, ok := unicode.Scripts[pack.Script]; !ok {
				return nil, fmt.Errorf("catalog: unknown script %q for %s", pack.Script, lang)
			}
		}
	}
	c.TopicKeywords = lo.Map(c.TopicKeywords, func(k string, _ int) string {
		return strings.ToLower(k)
	})
	return &c, nil
}

// LoadKnowledgeFile replaces the knowledge table with the contents of a YAML
// or JSON file. The catalog is left untouched on error.
func (c *Catalog) LoadKnowledgeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read knowledge file: %w", err)
	}
	var kb models.KnowledgeBase
	if err := yaml.Unmarshal(data, &kb); err != nil {
		return fmt.Errorf("parse knowledge file: %w", err)
	}
	if len(kb.Crops) == 0 && len(kb.Seasons) == 0 {
		return fmt.Errorf("knowledge file %s is empty", path)
	}
	c.Knowledge = kb
	return nil
}

// Pack returns the strings for lang, falling back to the primary language
func (c *Catalog) Pack(lang models.Language) LanguagePack {
	if p, ok := c.Languages[lang]; ok {
		return p
	}
	return c.Languages[c.Primary]
}

// Supports reports whether lang has a language pack
func (c *Catalog) Supports(lang models.Language) bool {
	_, ok := c.Languages[lang]
	return ok
}

// LanguageTags lists the supported languages in a stable order
func (c *Catalog) LanguageTags() []models.Language {
	tags := lo.Keys(c.Languages)
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}

// IsAgricultureRelated is the topic filter: a case-insensitive substring
// match against the bilingual keyword list.
func (c *Catalog) IsAgricultureRelated(text string) bool {
	lower := strings.ToLower(text)
	return lo.ContainsBy(c.TopicKeywords, func(k string) bool {
		return strings.Contains(lower, k)
	})
}

// CannedAnswer looks for a crop fact, then for a knowledge-table crop, named
// in text. The second return value is false when nothing matched.
func (c *Catalog) CannedAnswer(text string, lang models.Language) (string, bool) {
	lower := strings.ToLower(text)

	for _, fact := range c.CropFacts {
		hit := lo.ContainsBy(fact.Keywords, func(k string) bool {
			return strings.Contains(lower, strings.ToLower(k))
		})
		if !hit {
			continue
		}
		if answer, ok := fact.Answers[lang]; ok {
			return answer, true
		}
		if answer, ok := fact.Answers[c.Primary]; ok {
			return answer, true
		}
	}

	crops := lo.Keys(c.Knowledge.Crops)
	sort.Strings(crops)
	for _, name := range crops {
		if !strings.Contains(lower, strings.ToLower(name)) {
			continue
		}
		info := c.Knowledge.Crops[name]
		months := c.Knowledge.Seasons[info.Season].Months
		if months == "" {
			months = "-"
		}
		tmpl := c.Pack(lang).CropAnswer
		if tmpl == "" {
			continue
		}
		r := strings.NewReplacer(
			"{crop}", capitalize(name),
			"{season}", info.Season,
			"{months}", months,
			"{water}", strings.ReplaceAll(info.WaterRequirement, "_", " "),
		)
		return r.Replace(tmpl), true
	}
	return "", false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
