package domain

import (
	"math"
	"time"
)

// Nutrient names the values that carry a display level.
type Nutrient string

const (
	NutrientCalories Nutrient = "calories"
	NutrientProtein  Nutrient = "protein"
	NutrientFat      Nutrient = "fat"
	NutrientSugar    Nutrient = "sugar"
	NutrientSodium   Nutrient = "sodium"
	NutrientFiber    Nutrient = "fiber"
)

// Level grades a nutrient value for display, from good to high concern.
type Level int

const (
	LevelNeutral Level = iota
	LevelGood
	LevelModerate
	LevelElevated
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelGood:
		return "good"
	case LevelModerate:
		return "moderate"
	case LevelElevated:
		return "elevated"
	case LevelHigh:
		return "high"
	default:
		return "neutral"
	}
}

// NutrientLevel grades value for the given nutrient. Protein and fiber grade
// higher values as better; the others grade them as worse.
func NutrientLevel(n Nutrient, value float64) Level {
	switch n {
	case NutrientCalories:
		return above(value, 400, LevelElevated, 200, LevelModerate)
	case NutrientProtein:
		return below(value, 20, 10)
	case NutrientFat:
		return above(value, 15, LevelElevated, 8, LevelModerate)
	case NutrientSugar:
		return above(value, 15, LevelHigh, 8, LevelElevated)
	case NutrientSodium:
		return above(value, 800, LevelHigh, 400, LevelElevated)
	case NutrientFiber:
		return below(value, 5, 2)
	default:
		return LevelNeutral
	}
}

func above(v, hi float64, hiLevel Level, mid float64, midLevel Level) Level {
	switch {
	case v > hi:
		return hiLevel
	case v > mid:
		return midLevel
	default:
		return LevelGood
	}
}

func below(v, good, mid float64) Level {
	switch {
	case v > good:
		return LevelGood
	case v > mid:
		return LevelModerate
	default:
		return LevelElevated
	}
}

// HistorySummary aggregates saved analyses.
type HistorySummary struct {
	Count       int `json:"count"`
	AvgCalories int `json:"avg_calories"`
	AvgProtein  int `json:"avg_protein_g"`
	DaysTracked int `json:"days_tracked"`
}

// Summarize computes averages over entries, rounding like the history view
// does. now anchors the days-tracked span.
func Summarize(entries []HistoryEntry, now time.Time) HistorySummary {
	if len(entries) == 0 {
		return HistorySummary{}
	}

	var calories, protein float64
	oldest := entries[0].Timestamp
	for _, e := range entries {
		calories += e.Nutrition.Calories
		protein += e.Nutrition.ProteinG
		if e.Timestamp < oldest {
			oldest = e.Timestamp
		}
	}

	n := float64(len(entries))
	span := float64(now.UnixMilli()-oldest) / float64(24*time.Hour/time.Millisecond)
	return HistorySummary{
		Count:       len(entries),
		AvgCalories: int(math.Round(calories / n)),
		AvgProtein:  int(math.Round(protein / n)),
		DaysTracked: int(math.Round(span)),
	}
}
