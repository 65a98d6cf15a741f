package feedback

import (
	"context"
	"fmt"
	"strings"
)

// Commenter turns a failed submission's discrepancy list into a short
// student-readable note.
type Commenter interface {
	Comment(ctx context.Context, id string, discrepancies []string) (string, error)
}

type Options struct {
	Provider string
	APIKey   string
	Model    string
}

func NewCommenter(ctx context.Context, opts Options) (Commenter, error) {
	provider := strings.ToLower(strings.TrimSpace(opts.Provider))
	if provider == "" {
		provider = "gemini"
	}

	switch provider {
	case "gemini":
		return NewGeminiCommenter(ctx, opts.APIKey, opts.Model)
	default:
		return nil, fmt.Errorf("unsupported feedback provider: %s", opts.Provider)
	}
}

func buildPrompt(id string, discrepancies []string) string {
	var sb strings.Builder
	sb.WriteString("Role: Teaching assistant for an object-oriented design course.\n")
	sb.WriteString("A student's submitted class structure was compared against the reference solution.\n")
	fmt.Fprintf(&sb, "Student: %s\n", id)
	sb.WriteString("\nStructural differences found:\n")
	for _, d := range discrepancies {
		fmt.Fprintf(&sb, "- %s\n", d)
	}
	sb.WriteString("\n**INSTRUCTION**:\n")
	sb.WriteString("Write a short, encouraging note telling the student which parts of their class design to revisit.\n")
	sb.WriteString("Plain text only, at most 120 words, no code, no markdown.\n")
	return sb.String()
}
