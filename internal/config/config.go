package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string
	StaticDir  string
	LogLevel   string
	LogFile    string

	// CORSOrigins lists frontends on other origins allowed to call the API.
	CORSOrigins []string

	LLMBackend    string
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	VertexProject string
	VertexRegion  string
	VertexCreds   string
	VertexModel   string
	ClaudeAPIKey  string
	ClaudeModel   string
	OllamaHost    string
	OllamaModel   string

	// Client-side settings used by cmd/foodlens.
	ServerURL string
	DBPath    string
	PhotoPath string
	CameraDir string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":8080"),
		StaticDir:  getEnv("STATIC_DIR", ""),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFile:    getEnv("LOG_FILE", ""),

		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),

		LLMBackend:    getEnv("LLM_BACKEND", "gemini"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash-exp"),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		VertexProject: getEnv("VERTEX_PROJECT_ID", ""),
		VertexRegion:  getEnv("VERTEX_LOCATION", "us-central1"),
		VertexCreds:   getEnv("VERTEX_CREDENTIALS_FILE", ""),
		VertexModel:   getEnv("VERTEX_MODEL", "gemini-2.0-flash-001"),
		ClaudeAPIKey:  getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:   getEnv("CLAUDE_MODEL", "claude-3-5-sonnet-20241022"),
		OllamaHost:    getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llava"),

		ServerURL: getEnv("FOODLENS_SERVER", "http://localhost:8080"),
		DBPath:    getEnv("FOODLENS_DB_PATH", "foodlens.db"),
		PhotoPath: getEnv("FOODLENS_PHOTO_PATH", "photos"),
		CameraDir: getEnv("FOODLENS_CAMERA_DIR", "camera"),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
