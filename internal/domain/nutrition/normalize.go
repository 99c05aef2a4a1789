package nutrition

import "strings"

// synonyms maps common recipe terms to database-friendly canonical forms.
// Keys are already lowercased and trimmed.
var synonyms = map[string]string{
	"chicken breast":  "chicken broilers breast meat raw",
	"chicken thigh":   "chicken broilers thigh meat raw",
	"ground beef":     "beef ground 90% lean raw",
	"ground turkey":   "turkey ground 93% lean raw",
	"greek yogurt":    "yogurt greek plain whole milk",
	"rolled oats":     "oats rolled old fashioned dry",
	"quick oats":      "oats rolled old fashioned dry",
	"olive oil":       "oil olive extra virgin",
	"evoo":            "oil olive extra virgin",
	"brown rice":      "rice brown long grain raw",
	"white rice":      "rice white long grain raw",
	"sweet potato":    "sweet potato raw unprepared",
	"peanut butter":   "peanut butter smooth style",
	"almond butter":   "almond butter plain",
	"protein powder":  "whey protein powder isolate",
	"whey protein":    "whey protein powder isolate",
	"cottage cheese":  "cheese cottage lowfat 2% milkfat",
	"salmon":          "fish salmon atlantic farmed raw",
	"tuna":            "fish tuna light canned in water",
	"egg whites":      "egg white raw fresh",
	"bell pepper":     "peppers sweet red raw",
	"black beans":     "beans black mature seeds canned",
	"chickpeas":       "chickpeas garbanzo beans canned",
}

// Normalize lowercases and trims a free-text ingredient name and maps
// known recipe terms to their canonical database form. Unmapped input is
// returned lowercased and trimmed; the function is total and never fails.
func Normalize(raw string) string {
	name := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := synonyms[name]; ok {
		return canonical
	}
	return name
}
