package services

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koti-agri/koti-backend/internal/models"
)

type fakeModel struct {
	reply   string
	err     error
	panics  bool
	prompts []string
}

func (f *fakeModel) GenerateText(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.panics {
		panic("model exploded")
	}
	return f.reply, f.err
}

func TestGenerate_OffTopicSkipsModel(t *testing.T) {
	c := mustCatalog(t)
	m := &fakeModel{reply: "ignored"}
	g := NewAnswerGenerator(c, m)

	out := g.Generate(context.Background(), "tell me a joke", models.LanguageEnglish)
	assert.Equal(t, c.Pack(models.LanguageEnglish).Redirect, out)
	assert.Empty(t, m.prompts)
}

func TestGenerate_MissingModel(t *testing.T) {
	c := mustCatalog(t)
	g := NewAnswerGenerator(c, nil)

	assert.False(t, g.Available())
	assert.Equal(t, c.Pack(models.LanguageMarathi).Unavailable,
		g.Generate(context.Background(), "काय पीक लावावे?", models.LanguageMarathi))
	assert.Equal(t, c.Pack(models.LanguageEnglish).Redirect,
		g.Generate(context.Background(), "tell me a joke", models.LanguageEnglish))
}

func TestGenerate_Success(t *testing.T) {
	c := mustCatalog(t)
	m := &fakeModel{reply: "  Plant soybean after the first rains.  "}
	g := NewAnswerGenerator(c, m)

	out := g.Generate(context.Background(), "Which crop for June?", models.LanguageEnglish)
	assert.Equal(t, "Plant soybean after the first rains.", out)
	if assert.Len(t, m.prompts, 1) {
		assert.True(t, strings.HasPrefix(m.prompts[0], c.Pack(models.LanguageEnglish).Persona+"\n\nUser: "))
		assert.True(t, strings.HasSuffix(m.prompts[0], "User: Which crop for June?\nKoti:"))
	}
}

func TestGenerate_Fallbacks(t *testing.T) {
	c := mustCatalog(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		model *fakeModel
		query string
		lang  models.Language
		want  string
	}{
		{
			name:  "blocked rice falls back to crop fact",
			model: &fakeModel{err: ErrBlocked},
			query: "When to plant rice?",
			lang:  models.LanguageEnglish,
			want:  c.CropFacts[0].Answers[models.LanguageEnglish],
		},
		{
			name:  "empty cotton answer in marathi",
			model: &fakeModel{err: ErrEmptyResponse},
			query: "कापूस पीक",
			lang:  models.LanguageMarathi,
			want:  c.CropFacts[1].Answers[models.LanguageMarathi],
		},
		{
			name:  "blank text falls back to knowledge table",
			model: &fakeModel{reply: "   "},
			query: "wheat crop season",
			lang:  models.LanguageEnglish,
			want:  "Wheat is a rabi crop (November-April) with medium water requirement.",
		},
		{
			name:  "blocked with nothing canned",
			model: &fakeModel{err: ErrBlocked},
			query: "soil health card scheme",
			lang:  models.LanguageEnglish,
			want:  c.Pack(models.LanguageEnglish).Apology,
		},
		{
			name:  "network error gives apology even for rice",
			model: &fakeModel{err: errors.New("dial tcp: timeout")},
			query: "rice price",
			lang:  models.LanguageEnglish,
			want:  c.Pack(models.LanguageEnglish).Apology,
		},
		{
			name:  "panic gives apology",
			model: &fakeModel{panics: true},
			query: "farm loan",
			lang:  models.LanguageMarathi,
			want:  c.Pack(models.LanguageMarathi).Apology,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewAnswerGenerator(c, tt.model)
			out := g.Generate(ctx, tt.query, tt.lang)
			assert.Equal(t, tt.want, out)
			assert.NotEmpty(t, out)
		})
	}
}

func TestCatalog_CannedAnswer(t *testing.T) {
	c := mustCatalog(t)

	out, ok := c.CannedAnswer("sugarcane planting", models.LanguageEnglish)
	assert.True(t, ok)
	assert.Equal(t, "Sugarcane is a year_round crop (-) with very high water requirement.", out)

	out, ok = c.CannedAnswer("तांदूळ", models.LanguageMarathi)
	assert.True(t, ok)
	assert.Equal(t, c.CropFacts[0].Answers[models.LanguageMarathi], out)

	_, ok = c.CannedAnswer("tractor repair", models.LanguageEnglish)
	assert.False(t, ok)
}

func TestCatalog_TopicFilter(t *testing.T) {
	c := mustCatalog(t)

	assert.True(t, c.IsAgricultureRelated("What CROP should I plant?"))
	assert.True(t, c.IsAgricultureRelated("काय पीक लावावे?"))
	assert.True(t, c.IsAgricultureRelated("पाऊस कधी येईल"))
	assert.False(t, c.IsAgricultureRelated("tell me a joke"))
	assert.False(t, c.IsAgricultureRelated(""))
}

func TestCatalog_LoadKnowledgeFile(t *testing.T) {
	c := mustCatalog(t)
	dir := t.TempDir()

	path := dir + "/knowledge.json"
	writeFile(t, path, `{"crops":{"jowar":{"season":"rabi","water_requirement":"low"}},"seasons":{"rabi":{"months":"Oct-Feb","crops":["jowar"]}}}`)
	assert.NoError(t, c.LoadKnowledgeFile(path))

	out, ok := c.CannedAnswer("jowar", models.LanguageEnglish)
	assert.True(t, ok)
	assert.Equal(t, "Jowar is a rabi crop (Oct-Feb) with low water requirement.", out)

	empty := dir + "/empty.yaml"
	writeFile(t, empty, "crops: {}\n")
	assert.Error(t, c.LoadKnowledgeFile(empty))
	assert.Error(t, c.LoadKnowledgeFile(dir+"/missing.yaml"))
	assert.Contains(t, c.Knowledge.Crops, "jowar")
}

func TestParseCatalog_Invalid(t *testing.T) {
	_, err := ParseCatalog([]byte("primary: mr\nsecondary: en\nlanguages: {}\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("primary: mr\nsecondary: mr\nlanguages:\n  mr:\n    script: Klingon\n"))
	assert.Error(t, err)

	_, err = ParseCatalog([]byte("languages: [unclosed"))
	assert.Error(t, err)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
