package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/foodlens/internal/llm"
)

func TestOllamaGenerate(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)

		resp := map[string]any{
			"model":    got.Model,
			"response": `{"food_name":"Omelette"}`,
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	gen := NewGenerator(server.URL, "llava")

	text, err := gen.Generate(context.Background(), "describe", &llm.Image{Data: []byte{0xFF, 0xD8, 0xFF, 0xE0}})
	require.NoError(t, err)

	assert.Equal(t, `{"food_name":"Omelette"}`, text)
	assert.Equal(t, "llava", got.Model)
	assert.Equal(t, "json", got.Format)
	assert.False(t, got.Stream)
	assert.Len(t, got.Images, 1)
}

func TestOllamaGenerateTextOnly(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"response":"{}"}`))
	}))
	defer server.Close()

	_, err := NewGenerator(server.URL, "llava").Generate(context.Background(), "rice", nil)
	require.NoError(t, err)
	assert.Empty(t, got.Images)
}

func TestOllamaNetworkError(t *testing.T) {
	gen := NewGenerator("http://localhost:99999", "llava")

	_, err := gen.Generate(context.Background(), "describe", nil)
	assert.Error(t, err)
}

func TestOllamaServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewGenerator(server.URL, "llava").Generate(context.Background(), "describe", nil)
	assert.Error(t, err)
}
