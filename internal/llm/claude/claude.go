package claude

import (
	"context"
	"fmt"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/foodlens/internal/llm"
)

const APIKeyEnv = "CLAUDE_API_KEY"

const maxTokens = 1024

type Generator struct {
	apiKey string
	model  string
	client *anthropic.Client
}

// NewGenerator returns a Claude-backed generator. opts are passed to the
// Anthropic client, e.g. anthropic.WithBaseURL in tests.
func NewGenerator(apiKey, model string, opts ...anthropic.ClientOption) *Generator {
	return &Generator{
		apiKey: apiKey,
		model:  model,
		client: anthropic.NewClient(apiKey, opts...),
	}
}

// buildMessages places the image block before the prompt text.
func buildMessages(prompt string, img *llm.Image) []anthropic.Message {
	var blocks []anthropic.MessageContent
	if img != nil {
		blocks = append(blocks, anthropic.NewImageMessageContent(
			anthropic.NewMessageContentSource(
				anthropic.MessagesContentSourceTypeBase64,
				llm.NormaliseMIME(img.MIMEType),
				img.Data,
			),
		))
	}
	blocks = append(blocks, anthropic.NewTextMessageContent(prompt))

	return []anthropic.Message{{Role: anthropic.RoleUser, Content: blocks}}
}

func (g *Generator) Generate(ctx context.Context, prompt string, img *llm.Image) (string, error) {
	if g.apiKey == "" {
		return "", &llm.MissingKeyError{EnvVar: APIKeyEnv}
	}

	resp, err := g.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(g.model),
		MaxTokens: maxTokens,
		Messages:  buildMessages(prompt, img),
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w", err)
	}

	for _, c := range resp.Content {
		if c.Type == anthropic.MessagesContentTypeText {
			return c.GetText(), nil
		}
	}
	return "", fmt.Errorf("claude returned no text content")
}
