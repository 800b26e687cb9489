package domain

// Confidence is the model's self-reported certainty. It is not verified.
type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Valid reports whether c is one of the three known levels.
func (c Confidence) Valid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
		return true
	}
	return false
}

// NutritionData holds per-serving values exactly as the model reported them.
type NutritionData struct {
	Calories  float64 `json:"calories"`
	ProteinG  float64 `json:"protein_g"`
	FatG      float64 `json:"fat_g"`
	CarbsG    float64 `json:"carbs_g"`
	SugarG    float64 `json:"sugar_g"`
	FiberG    float64 `json:"fiber_g"`
	SodiumMg  float64 `json:"sodium_mg"`
	CalciumMg float64 `json:"calcium_mg"`
	IronMg    float64 `json:"iron_mg"`
}

// FoodAnalysisResult is the single response shape of both analysis routes.
// A failed analysis has the same fields populated with placeholders and a
// non-empty Error.
type FoodAnalysisResult struct {
	FoodName          string        `json:"food_name"`
	Description       string        `json:"description"`
	Confidence        Confidence    `json:"confidence"`
	Nutrition         NutritionData `json:"nutrition"`
	Ingredients       []string      `json:"ingredients"`
	HealthInsights    []string      `json:"health_insights"`
	DietaryTags       []string      `json:"dietary_tags"`
	ServingSize       string        `json:"serving_size"`
	PreparationMethod string        `json:"preparation_method"`
	Timestamp         int64         `json:"timestamp,omitempty"`
	Image             string        `json:"image,omitempty"`
	Error             string        `json:"error,omitempty"`
}

// Failed reports whether r is a fallback result.
func (r *FoodAnalysisResult) Failed() bool {
	return r.Error != ""
}

// Normalize replaces nil slices with empty ones so the JSON encoding never
// carries null arrays.
func (r *FoodAnalysisResult) Normalize() {
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.HealthInsights == nil {
		r.HealthInsights = []string{}
	}
	if r.DietaryTags == nil {
		r.DietaryTags = []string{}
	}
}

// HistoryEntry is one saved analysis. Timestamp (unix millis) identifies the
// entry; Image holds a photo storage key for captures and SearchQuery the
// typed name for searches.
type HistoryEntry struct {
	FoodAnalysisResult
	SearchQuery string `json:"searchQuery,omitempty"`
}
