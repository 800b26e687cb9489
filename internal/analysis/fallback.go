package analysis

import (
	"errors"
	"fmt"

	"github.com/vbonduro/foodlens/internal/domain"
	"github.com/vbonduro/foodlens/internal/llm"
)

// fallback builds the zero-nutrition result returned in place of an error.
// Both routes share the shape and differ only in their texts.
func fallback(foodName, description string, ingredients, insights []string, err error) *domain.FoodAnalysisResult {
	msg := "Unknown error occurred"
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return &domain.FoodAnalysisResult{
		FoodName:          foodName,
		Description:       description,
		Confidence:        domain.ConfidenceLow,
		Nutrition:         domain.NutritionData{},
		Ingredients:       ingredients,
		HealthInsights:    insights,
		DietaryTags:       []string{},
		ServingSize:       "Unknown",
		PreparationMethod: "Unable to determine",
		Error:             msg,
	}
}

func imageFallback(err error) *domain.FoodAnalysisResult {
	keyVar := "GEMINI_API_KEY"
	var mk *llm.MissingKeyError
	if errors.As(err, &mk) {
		keyVar = mk.EnvVar
	}
	return fallback(
		"Food Analysis Unavailable",
		"Unable to analyze the food image at this time. Please check your API configuration.",
		[]string{"Analysis unavailable"},
		[]string{
			"Food analysis is currently unavailable",
			fmt.Sprintf("Please ensure your %s is properly configured", keyVar),
			"Try again in a few moments",
		},
		err,
	)
}

func searchFallback(foodName string, err error) *domain.FoodAnalysisResult {
	var mk *llm.MissingKeyError
	if !errors.As(err, &mk) {
		return fallback(
			foodName+" - Analysis Unavailable",
			fmt.Sprintf("Unable to analyze %q at this time. Please try again.", foodName),
			[]string{"Analysis unavailable"},
			[]string{
				"Food search is currently unavailable",
				"Please ensure your API key is properly configured",
				"Try again after adding the API key",
			},
			err,
		)
	}
	return fallback(
		"API Key Required",
		fmt.Sprintf("To use food search, please set %s in the server environment. "+
			"A free Gemini API key is available from Google AI Studio (ai.google.dev).", mk.EnvVar),
		[]string{"API key required"},
		[]string{
			fmt.Sprintf("Add your %s to enable food search", mk.EnvVar),
			"Get a free API key from Google AI Studio (ai.google.dev)",
			"Try again after adding the API key",
		},
		err,
	)
}
