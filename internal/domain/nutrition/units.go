package nutrition

import (
	"sort"
	"strconv"
	"strings"
)

// Confidence tags how trustworthy a gram conversion is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Conversion is the result of converting an amount/unit pair to grams.
type Conversion struct {
	Grams      float64    `json:"grams"`
	Confidence Confidence `json:"confidence"`
}

// fallbackGrams is used when the amount cannot be parsed at all.
const fallbackGrams = 100

type unitDef struct {
	grams  float64
	volume bool
}

// unitConversions maps unit tokens to grams. Volume units carry the
// water-equivalent weight of one unit; a density multiplier corrects
// them per ingredient.
var unitConversions = map[string]unitDef{
	// mass
	"mg":        {grams: 0.001},
	"g":         {grams: 1},
	"gram":      {grams: 1},
	"grams":     {grams: 1},
	"kg":        {grams: 1000},
	"kilogram":  {grams: 1000},
	"kilograms": {grams: 1000},
	"oz":        {grams: 28.3495},
	"ounce":     {grams: 28.3495},
	"ounces":    {grams: 28.3495},
	"lb":        {grams: 453.592},
	"lbs":       {grams: 453.592},
	"pound":     {grams: 453.592},
	"pounds":    {grams: 453.592},

	// volume (water equivalent)
	"ml":          {grams: 1, volume: true},
	"milliliter":  {grams: 1, volume: true},
	"milliliters": {grams: 1, volume: true},
	"l":           {grams: 1000, volume: true},
	"liter":       {grams: 1000, volume: true},
	"liters":      {grams: 1000, volume: true},
	"tsp":         {grams: 5, volume: true},
	"teaspoon":    {grams: 5, volume: true},
	"teaspoons":   {grams: 5, volume: true},
	"tbsp":        {grams: 15, volume: true},
	"tablespoon":  {grams: 15, volume: true},
	"tablespoons": {grams: 15, volume: true},
	"cup":         {grams: 240, volume: true},
	"cups":        {grams: 240, volume: true},
	"fl oz":       {grams: 30, volume: true},
	"fluid ounce": {grams: 30, volume: true},
}

// countableTokens mark an ingredient as a counted item ("2 large eggs").
var countableTokens = map[string]struct{}{
	"small":    {},
	"medium":   {},
	"large":    {},
	"whole":    {},
	"piece":    {},
	"pieces":   {},
	"clove":    {},
	"cloves":   {},
	"fillet":   {},
	"fillets":  {},
	"slice":    {},
	"slices":   {},
	"scoop":    {},
	"scoops":   {},
	"serving":  {},
	"servings": {},
	"can":      {},
	"cans":     {},
	"each":     {},
}

// itemWeights holds average per-item gram weights for counted ingredients.
var itemWeights = map[string]float64{
	"egg":            50,
	"egg white":      33,
	"banana":         118,
	"apple":          182,
	"orange":         131,
	"avocado":        150,
	"chicken breast": 174,
	"chicken thigh":  125,
	"salmon":         170,
	"potato":         173,
	"sweet potato":   130,
	"onion":          110,
	"garlic":         3,
	"bell pepper":    120,
	"tomato":         123,
	"carrot":         61,
	"cucumber":       201,
	"zucchini":       196,
	"lemon":          58,
	"lime":           67,
	"tortilla":       45,
	"bread":          30,
	"bagel":          105,
	"rice cake":      9,
	"protein bar":    60,
}

// densityMultipliers convert water-equivalent volume weights to the
// ingredient's actual weight (1.0 = water).
var densityMultipliers = map[string]float64{
	"oil":           0.92,
	"olive oil":     0.92,
	"butter":        0.96,
	"honey":         1.42,
	"maple syrup":   1.32,
	"milk":          1.03,
	"cream":         1.01,
	"yogurt":        1.04,
	"peanut butter": 1.08,
	"flour":         0.53,
	"sugar":         0.85,
	"brown sugar":   0.93,
	"rice":          0.85,
	"oats":          0.41,
	"cocoa":         0.52,
	"soy sauce":     1.15,
}

// Lookup order matters: two table keys can both substring-match one
// ingredient ("sweet potato" and "potato"). The scan is longest key
// first, lexicographic on ties, so the most specific entry always wins
// and the result is deterministic.
var (
	itemWeightKeys []string
	densityKeys    []string
)

func init() {
	itemWeightKeys = sortedKeysByLength(itemWeights)
	densityKeys = sortedKeysByLength(densityMultipliers)
}

func sortedKeysByLength(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// ConvertToGrams maps a quantity, unit and ingredient name to a gram
// weight. It never fails: malformed input degrades the confidence tag
// instead of returning an error.
func ConvertToGrams(amount, unit, ingredientName string) Conversion {
	qty, err := strconv.ParseFloat(strings.TrimSpace(amount), 64)
	if err != nil {
		return Conversion{Grams: fallbackGrams, Confidence: ConfidenceLow}
	}

	u := strings.ToLower(strings.TrimSpace(unit))
	name := strings.ToLower(strings.TrimSpace(ingredientName))

	// Counted items: "2 large eggs", "3 cloves garlic", a bare "2".
	if isCountable(u) {
		if w, ok := lookupItemWeight(name); ok {
			return Conversion{Grams: qty * w, Confidence: ConfidenceHigh}
		}
	}

	if def, ok := unitConversions[u]; ok {
		if !def.volume {
			return Conversion{Grams: qty * def.grams, Confidence: ConfidenceHigh}
		}
		if density, ok := lookupDensity(name); ok {
			return Conversion{Grams: qty * def.grams * density, Confidence: ConfidenceHigh}
		}
		// Water-equivalent density only.
		return Conversion{Grams: qty * def.grams, Confidence: ConfidenceMedium}
	}

	// Unrecognized unit: the ingredient may still be a known counted item.
	if w, ok := lookupItemWeight(name); ok {
		return Conversion{Grams: qty * w, Confidence: ConfidenceMedium}
	}

	return Conversion{Grams: qty * fallbackGrams, Confidence: ConfidenceLow}
}

func isCountable(unit string) bool {
	if unit == "" {
		return true
	}
	if _, ok := countableTokens[unit]; ok {
		return true
	}
	// A unit that is itself a number ("2 2 eggs") counts items.
	if _, err := strconv.ParseFloat(unit, 64); err == nil {
		return true
	}
	return false
}

func lookupItemWeight(name string) (float64, bool) {
	if w, ok := itemWeights[name]; ok {
		return w, true
	}
	for _, key := range itemWeightKeys {
		if strings.Contains(name, key) || strings.Contains(key, name) {
			return itemWeights[key], true
		}
	}
	return 0, false
}

func lookupDensity(name string) (float64, bool) {
	if d, ok := densityMultipliers[name]; ok {
		return d, true
	}
	for _, key := range densityKeys {
		if strings.Contains(name, key) || strings.Contains(key, name) {
			return densityMultipliers[key], true
		}
	}
	return 0, false
}
