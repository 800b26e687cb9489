package vertex

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"github.com/vbonduro/foodlens/internal/llm"
)

// ProjectEnv is reported when no Vertex project is configured.
const ProjectEnv = "VERTEX_PROJECT_ID"

type Config struct {
	ProjectID       string
	Location        string
	CredentialsFile string
	Model           string
}

// Generator calls Gemini through Vertex AI. The client is created on first
// use so a missing project surfaces per request instead of at startup.
type Generator struct {
	config Config

	mu     sync.Mutex
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGenerator(config Config) *Generator {
	return &Generator{config: config}
}

func (g *Generator) load(ctx context.Context) (*genai.GenerativeModel, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.model != nil {
		return g.model, nil
	}
	if g.config.ProjectID == "" {
		return nil, &llm.MissingKeyError{EnvVar: ProjectEnv}
	}

	var opts []option.ClientOption
	if g.config.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(g.config.CredentialsFile))
	}

	client, err := genai.NewClient(ctx, g.config.ProjectID, g.config.Location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}

	g.client = client
	g.model = client.GenerativeModel(g.config.Model)
	return g.model, nil
}

func (g *Generator) Generate(ctx context.Context, prompt string, img *llm.Image) (string, error) {
	model, err := g.load(ctx)
	if err != nil {
		return "", err
	}

	parts := []genai.Part{genai.Text(prompt)}
	if img != nil {
		parts = append(parts, genai.Blob{MIMEType: llm.NormaliseMIME(img.MIMEType), Data: img.Data})
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to call vertex: %w", err)
	}
	return responseText(resp)
}

// Close releases the underlying client, if one was created.
func (g *Generator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no response generated")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var sb strings.Builder
	for _, p := range candidate.Content.Parts {
		if t, ok := p.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String(), nil
}
