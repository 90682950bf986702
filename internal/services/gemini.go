package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGenerationTimeout = 30 * time.Second

var (
	// ErrBlocked means the safety filters withheld the answer
	ErrBlocked = errors.New("response blocked by safety filters")
	// ErrEmptyResponse means the model answered without any text
	ErrEmptyResponse = errors.New("empty response from model")
)

// TextModel turns a prompt into text
type TextModel interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeminiModel is a TextModel backed by the Gemini API
type GeminiModel struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	name    string
	timeout time.Duration
}

func NewGeminiModel(ctx context.Context, apiKey, modelName string, timeout time.Duration, opts ...option.ClientOption) (*GeminiModel, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	m := cl.GenerativeModel(strings.TrimSpace(modelName))
	m.SetTemperature(0.7)
	m.SetTopP(0.8)
	m.SetTopK(40)
	m.SetMaxOutputTokens(1024)
	m.SafetySettings = []*genai.SafetySetting{
		{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockMediumAndAbove},
		{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockMediumAndAbove},
	}

	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	return &GeminiModel{client: cl, model: m, name: modelName, timeout: timeout}, nil
}

func (g *GeminiModel) Name() string { return g.name }

// GenerateText makes exactly one GenerateContent call
func (g *GeminiModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		var blocked *genai.BlockedError
		if errors.As(err, &blocked) {
			return "", fmt.Errorf("%w: %v", ErrBlocked, blocked)
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	txt := strings.TrimSpace(firstText(resp))
	if txt == "" {
		return "", ErrEmptyResponse
	}
	return txt, nil
}

func (g *GeminiModel) Close() error {
	return g.client.Close()
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}
