package nutrition

import "math"

// Macros are the four tracked quantities per ingredient, meal and day.
type Macros struct {
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// ScaleProfile computes the macros for a gram amount of an ingredient
// from its per-100g profile. Calories round to the nearest integer, the
// gram channels to one decimal place.
func ScaleProfile(p Profile, grams float64) Macros {
	factor := grams / 100
	return Macros{
		Calories: int(math.Round(p.Calories * factor)),
		ProteinG: round1(p.ProteinG * factor),
		CarbsG:   round1(p.CarbsG * factor),
		FatG:     round1(p.FatG * factor),
	}
}

// Add returns the channel-wise sum of two macro sets.
func (m Macros) Add(other Macros) Macros {
	return Macros{
		Calories: m.Calories + other.Calories,
		ProteinG: round1(m.ProteinG + other.ProteinG),
		CarbsG:   round1(m.CarbsG + other.CarbsG),
		FatG:     round1(m.FatG + other.FatG),
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
