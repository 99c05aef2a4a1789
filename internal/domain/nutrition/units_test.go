package nutrition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConvertToGrams_MassUnits(t *testing.T) {
	tests := []struct {
		name       string
		amount     string
		unit       string
		ingredient string
		wantGrams  float64
	}{
		{"grams pass through", "150", "g", "chicken breast", 150},
		{"kilograms", "1.5", "kg", "rice", 1500},
		{"ounces", "2", "oz", "almonds", 56.699},
		{"pounds", "1", "lb", "ground beef", 453.592},
		{"milligrams", "500", "mg", "salt", 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := ConvertToGrams(tt.amount, tt.unit, tt.ingredient)
			assert.InDelta(t, tt.wantGrams, conv.Grams, 0.001)
			assert.Equal(t, ConfidenceHigh, conv.Confidence)
		})
	}
}

func TestConvertToGrams_VolumeWithDensity(t *testing.T) {
	// 2 cups * 240 g/cup * 0.92 density
	conv := ConvertToGrams("2", "cup", "olive oil")
	assert.InDelta(t, 441.6, conv.Grams, 0.001)
	assert.Equal(t, ConfidenceHigh, conv.Confidence)

	// 1 tbsp * 15 g/tbsp * 1.42 density
	conv = ConvertToGrams("1", "tbsp", "honey")
	assert.InDelta(t, 21.3, conv.Grams, 0.001)
	assert.Equal(t, ConfidenceHigh, conv.Confidence)
}

func TestConvertToGrams_VolumeWithoutDensity(t *testing.T) {
	// No density entry for water: water-equivalent weight, medium confidence.
	conv := ConvertToGrams("2", "cup", "water")
	assert.InDelta(t, 480, conv.Grams, 0.001)
	assert.Equal(t, ConfidenceMedium, conv.Confidence)
}

func TestConvertToGrams_CountedItems(t *testing.T) {
	conv := ConvertToGrams("3", "large", "egg")
	assert.InDelta(t, 150, conv.Grams, 0.001)
	assert.Equal(t, ConfidenceHigh, conv.Confidence)

	// Empty unit still counts items.
	conv = ConvertToGrams("2", "", "banana")
	assert.InDelta(t, 236, conv.Grams, 0.001)
	assert.Equal(t, ConfidenceHigh, conv.Confidence)

	conv = ConvertToGrams("2", "slices", "bread")
	assert.InDelta(t, 60, conv.Grams, 0.001)
	assert.Equal(t, ConfidenceHigh, conv.Confidence)
}

func TestConvertToGrams_LongestKeyWins(t *testing.T) {
	// "sweet potato" must match its own entry, not "potato".
	conv := ConvertToGrams("1", "medium", "sweet potato")
	assert.InDelta(t, 130, conv.Grams, 0.001)
	assert.Equal(t, ConfidenceHigh, conv.Confidence)
}

func TestConvertToGrams_UnrecognizedUnit(t *testing.T) {
	// Known item behind an unknown unit: item weight, medium confidence.
	conv := ConvertToGrams("2", "handful", "banana")
	assert.InDelta(t, 236, conv.Grams, 0.001)
	assert.Equal(t, ConfidenceMedium, conv.Confidence)

	// Unknown item and unknown unit: amount * 100g, low confidence.
	conv = ConvertToGrams("2", "handful", "pine nuts")
	assert.InDelta(t, 200, conv.Grams, 0.001)
	assert.Equal(t, ConfidenceLow, conv.Confidence)
}

func TestConvertToGrams_UnparseableAmount(t *testing.T) {
	// Conversion never fails; a garbage amount falls back to 100g.
	conv := ConvertToGrams("a splash", "cup", "milk")
	assert.InDelta(t, 100, conv.Grams, 0.001)
	assert.Equal(t, ConfidenceLow, conv.Confidence)

	conv = ConvertToGrams("", "", "")
	assert.InDelta(t, 100, conv.Grams, 0.001)
	assert.Equal(t, ConfidenceLow, conv.Confidence)
}
