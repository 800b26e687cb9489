package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.LLMBackend)
	assert.NotEmpty(t, cfg.GeminiModel)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("LLM_BACKEND", "claude")
	t.Setenv("CLAUDE_API_KEY", "sk-test123")
	t.Setenv("FOODLENS_DB_PATH", "/custom/foodlens.db")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "claude", cfg.LLMBackend)
	assert.Equal(t, "sk-test123", cfg.ClaudeAPIKey)
	assert.Equal(t, "/custom/foodlens.db", cfg.DBPath)
}

func TestLoadCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173, https://foodlens.example ,")

	cfg := Load()

	assert.Equal(t, []string{"http://localhost:5173", "https://foodlens.example"}, cfg.CORSOrigins)
}

func TestLoadNoCORSOriginsByDefault(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	assert.Empty(t, Load().CORSOrigins)
}

func TestLoadEmptyKeyIsNotReplacedByDefault(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg := Load()

	assert.Empty(t, cfg.GeminiAPIKey)
}

func TestLoadDotEnv(t *testing.T) {
	// t.Setenv restores the prior value; unset it so godotenv can fill it.
	t.Setenv("GEMINI_MODEL", "")
	require.NoError(t, os.Unsetenv("GEMINI_MODEL"))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("GEMINI_MODEL=gemini-from-dotenv\n"), 0600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg := Load()

	assert.Equal(t, "gemini-from-dotenv", cfg.GeminiModel)
}
