// Package textgen is the narrow text-generation boundary: a prompt template
// plus a context mapping in, prose out. The pipeline core only depends on
// the Generator interface, never on a provider.
package textgen

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/sashabaranov/go-openai"
)

// Generator renders a prompt template with the given context and returns
// generated prose.
type Generator interface {
	Generate(ctx context.Context, tmpl string, data map[string]any) (string, error)
}

// Placeholder is what report sections fall back to when generation fails.
// Prose quality degrades; the pipeline never crashes over it.
const Placeholder = "[section unavailable: text generation failed]"

// GenerateOrPlaceholder wraps Generate with the degradation rule.
func GenerateOrPlaceholder(ctx context.Context, g Generator, tmpl string, data map[string]any) string {
	out, err := g.Generate(ctx, tmpl, data)
	if err != nil {
		return Placeholder
	}
	return out
}

// RenderTemplate expands a prompt template against its context mapping.
func RenderTemplate(tmpl string, data map[string]any) (string, error) {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("bad prompt template: %w", err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("prompt template execution failed: %w", err)
	}
	return buf.String(), nil
}

// OpenAIGenerator sends rendered prompts to the chat completion API.
type OpenAIGenerator struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewOpenAIGenerator(apiKey string) *OpenAIGenerator {
	return &OpenAIGenerator{
		client:      openai.NewClient(apiKey),
		model:       openai.GPT3Dot5Turbo,
		temperature: 0.7,
	}
}

// WithModel overrides the default model, e.g. for the forecast narrative
// which wants a stronger model at lower temperature.
func (g *OpenAIGenerator) WithModel(model string, temperature float32) *OpenAIGenerator {
	return &OpenAIGenerator{client: g.client, model: model, temperature: temperature}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, tmpl string, data map[string]any) (string, error) {
	prompt, err := RenderTemplate(tmpl, data)
	if err != nil {
		return "", err
	}

	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: g.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an assistant that writes concise sections of disaster analysis reports.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			N:           1,
			Temperature: g.temperature,
		},
	)
	if err != nil {
		return "", fmt.Errorf("openai chat completion error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("openai returned empty response or choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Stub is a deterministic Generator for tests and offline runs: it echoes
// the rendered prompt's first line behind a fixed marker.
type Stub struct {
	// Err, when set, is returned from every call.
	Err error
}

func (s Stub) Generate(_ context.Context, tmpl string, data map[string]any) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	prompt, err := RenderTemplate(tmpl, data)
	if err != nil {
		return "", err
	}
	firstLine := prompt
	if idx := strings.IndexByte(prompt, '\n'); idx >= 0 {
		firstLine = prompt[:idx]
	}
	return "stub: " + strings.TrimSpace(firstLine), nil
}
