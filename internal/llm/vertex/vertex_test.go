package vertex

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/foodlens/internal/llm"
)

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text("```json\n{\"food_name\":"), genai.Text("\"Apple\"}\n```")},
			},
		}},
	}

	text, err := responseText(resp)
	require.NoError(t, err)
	assert.Equal(t, "```json\n{\"food_name\":\"Apple\"}\n```", text)
}

func TestResponseTextEmpty(t *testing.T) {
	_, err := responseText(&genai.GenerateContentResponse{})
	assert.Error(t, err)

	_, err = responseText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	assert.Error(t, err)
}

func TestGenerateWithoutProject(t *testing.T) {
	gen := NewGenerator(Config{Location: "us-central1", Model: "gemini-2.0-flash-001"})

	_, err := gen.Generate(context.Background(), "describe", nil)

	var mk *llm.MissingKeyError
	require.True(t, errors.As(err, &mk))
	assert.Equal(t, ProjectEnv, mk.EnvVar)
	assert.NoError(t, gen.Close())
}
