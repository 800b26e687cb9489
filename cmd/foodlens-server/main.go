package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/vbonduro/foodlens/internal/analysis"
	"github.com/vbonduro/foodlens/internal/config"
	"github.com/vbonduro/foodlens/internal/llm"
	"github.com/vbonduro/foodlens/internal/llm/claude"
	"github.com/vbonduro/foodlens/internal/llm/gemini"
	"github.com/vbonduro/foodlens/internal/llm/ollama"
	"github.com/vbonduro/foodlens/internal/llm/vertex"
	"github.com/vbonduro/foodlens/internal/logging"
	"github.com/vbonduro/foodlens/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gen, closeGen := newGenerator(cfg, logger)
	defer closeGen()

	analyzer := analysis.NewAnalyzer(gen, logger)
	server := web.NewServer(analyzer, cfg.StaticDir, logger)
	if len(cfg.CORSOrigins) > 0 {
		server.AllowOrigins(cfg.CORSOrigins...)
		logger.Info("cross-origin requests enabled", "origins", cfg.CORSOrigins)
	}

	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		logger.Error("server error", "error", err)
	}
}

// newGenerator picks the model backend. Missing credentials are not fatal:
// every request then returns the credential fallback.
func newGenerator(cfg *config.Config, logger *slog.Logger) (llm.Generator, func()) {
	switch cfg.LLMBackend {
	case "vertex":
		logger.Info("using Vertex AI backend", "project", cfg.VertexProject, "location", cfg.VertexRegion, "model", cfg.VertexModel)
		gen := vertex.NewGenerator(vertex.Config{
			ProjectID:       cfg.VertexProject,
			Location:        cfg.VertexRegion,
			CredentialsFile: cfg.VertexCreds,
			Model:           cfg.VertexModel,
		})
		return gen, func() {
			if err := gen.Close(); err != nil {
				logger.Error("failed to close vertex client", "error", err)
			}
		}
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			logger.Warn(claude.APIKeyEnv + " is not set; requests will return the fallback result")
		}
		logger.Info("using Claude backend", "model", cfg.ClaudeModel)
		return claude.NewGenerator(cfg.ClaudeAPIKey, cfg.ClaudeModel), func() {}
	case "ollama":
		logger.Info("using Ollama backend", "host", cfg.OllamaHost, "model", cfg.OllamaModel)
		return ollama.NewGenerator(cfg.OllamaHost, cfg.OllamaModel), func() {}
	default:
		if cfg.LLMBackend != "gemini" {
			logger.Warn("unknown LLM_BACKEND, using gemini", "backend", cfg.LLMBackend)
		}
		if cfg.GeminiAPIKey == "" {
			logger.Warn(gemini.APIKeyEnv + " is not set; requests will return the fallback result")
		}
		logger.Info("using Gemini backend", "model", cfg.GeminiModel)
		return gemini.NewGenerator(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL), func() {}
	}
}
