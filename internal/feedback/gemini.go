package feedback

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiCommenter implements Commenter using Google's Gemini API.
type GeminiCommenter struct {
	client *genai.Client
	model  string
}

func NewGeminiCommenter(ctx context.Context, apiKey string, modelName string) (*GeminiCommenter, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return &GeminiCommenter{
		client: client,
		model:  modelName,
	}, nil
}

func (g *GeminiCommenter) Comment(ctx context.Context, id string, discrepancies []string) (string, error) {
	prompt := buildPrompt(id, discrepancies)

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate feedback for %s: %w", id, err)
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				return string(txt), nil
			}
		}
	}

	return "", fmt.Errorf("no response candidates for %s", id)
}
