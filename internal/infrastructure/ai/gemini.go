package ai

import (
	"context"
	"fmt"
	"strings"

	"mediconnect/internal/domain/gateway"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiGenerator sends prompts to a Gemini model
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

var _ gateway.TextGenerator = (*GeminiGenerator)(nil)

func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string, attachments ...gateway.Attachment) (string, error) {
	parts := make([]genai.Part, 0, len(attachments)+1)
	parts = append(parts, genai.Text(prompt))
	for _, a := range attachments {
		parts = append(parts, genai.Blob{MIMEType: a.MIMEType, Data: a.Data})
	}

	resp, err := g.client.GenerativeModel(g.model).GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", nil
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// UnavailableGenerator answers every call with gateway.ErrGeneratorUnavailable
type UnavailableGenerator struct{}

func (UnavailableGenerator) GenerateText(context.Context, string, ...gateway.Attachment) (string, error) {
	return "", gateway.ErrGeneratorUnavailable
}
