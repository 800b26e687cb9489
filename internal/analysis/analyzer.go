package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/vbonduro/foodlens/internal/datauri"
	"github.com/vbonduro/foodlens/internal/domain"
	"github.com/vbonduro/foodlens/internal/llm"
)

// previewLen caps how much raw model output is logged per response.
const previewLen = 200

// Analyzer turns photos and food names into nutrition results. It never
// returns an error: every failure becomes a fallback result with the same
// shape as a success and a non-empty Error field.
type Analyzer struct {
	gen    llm.Generator
	logger *slog.Logger
}

func NewAnalyzer(gen llm.Generator, logger *slog.Logger) *Analyzer {
	return &Analyzer{gen: gen, logger: logger}
}

// AnalyzeImage estimates nutrition for the food in a data-URI image.
func (a *Analyzer) AnalyzeImage(ctx context.Context, image string) *domain.FoodAnalysisResult {
	result, err := a.analyzeImage(ctx, image)
	if err != nil {
		a.logger.Error("image analysis failed", "error", err)
		return imageFallback(err)
	}
	return result
}

func (a *Analyzer) analyzeImage(ctx context.Context, image string) (*domain.FoodAnalysisResult, error) {
	data, mimeType, err := datauri.Decode(image)
	if err != nil {
		return nil, err
	}

	a.logger.Info("image analysis started", "mime_type", mimeType, "bytes", len(data))
	return a.generate(ctx, ImagePrompt, &llm.Image{Data: data, MIMEType: mimeType})
}

// SearchFood estimates typical nutrition for a named food.
func (a *Analyzer) SearchFood(ctx context.Context, foodName string) *domain.FoodAnalysisResult {
	foodName = strings.TrimSpace(foodName)

	a.logger.Info("food search started", "food_name", foodName)
	result, err := a.generate(ctx, SearchPrompt(foodName), nil)
	if err != nil {
		a.logger.Error("food search failed", "food_name", foodName, "error", err)
		return searchFallback(foodName, err)
	}
	return result
}

func (a *Analyzer) generate(ctx context.Context, prompt string, img *llm.Image) (*domain.FoodAnalysisResult, error) {
	text, err := a.gen.Generate(ctx, prompt, img)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("model response received", "bytes", len(text), "preview", preview(text))

	return ParseResult(text)
}

var errNoFoodName = errors.New("result has no food_name")

// ParseResult decodes the first JSON object in model output that is a
// result. Objects without a food_name, such as an echoed schema or a stray
// {}, are skipped.
func ParseResult(text string) (*domain.FoodAnalysisResult, error) {
	var result domain.FoodAnalysisResult
	_, err := extractFirst(text, func(raw json.RawMessage) error {
		var candidate domain.FoodAnalysisResult
		if err := json.Unmarshal(raw, &candidate); err != nil {
			return fmt.Errorf("failed to decode model result: %w", err)
		}
		if strings.TrimSpace(candidate.FoodName) == "" {
			return errNoFoodName
		}
		result = candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	result.Normalize()
	return &result, nil
}

// preview cuts s to previewLen runes.
func preview(s string) string {
	if utf8.RuneCountInString(s) <= previewLen {
		return s
	}
	return string([]rune(s)[:previewLen]) + "..."
}
