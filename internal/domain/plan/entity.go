// Package plan contains the domain model for weekly meal plans and the
// reconciliation state that the validator drives them through.
package plan

import (
	"strconv"
	"strings"

	"github.com/wodplate/v2/internal/domain/nutrition"
)

// Category classifies an ingredient for grocery grouping.
type Category string

const (
	CategoryProduce Category = "produce"
	CategoryProtein Category = "protein"
	CategoryDairy   Category = "dairy"
	CategoryGrains  Category = "grains"
	CategoryPantry  Category = "pantry"
	CategoryFrozen  Category = "frozen"
	CategoryOther   Category = "other"
)

// MealType identifies the slot a meal occupies in a day.
type MealType string

const (
	MealTypeBreakfast MealType = "breakfast"
	MealTypeLunch     MealType = "lunch"
	MealTypeDinner    MealType = "dinner"
	MealTypeSnack     MealType = "snack"
)

// DayState tracks a day through the validate-and-adjust loop.
// Terminal state is always StateFinal; there is no failure state.
type DayState string

const (
	StatePending         DayState = "pending"
	StateComputed        DayState = "computed"
	StateWithinTolerance DayState = "within_tolerance"
	StateNeedsAdjustment DayState = "needs_adjustment"
	StateAdjusted        DayState = "adjusted"
	StateFinal           DayState = "final"
)

// IngredientRecord is one line item within a meal. Amount is kept as the
// numeric string the generator produced; the adjuster rescales it and the
// macro snapshot is recomputed, never hand-edited.
type IngredientRecord struct {
	Name     string            `json:"name"`
	Amount   string            `json:"amount"`
	Unit     string            `json:"unit"`
	Category Category          `json:"category"`
	Macros   *nutrition.Macros `json:"macros,omitempty"`
}

// Grams converts the record's stated amount and unit to a gram weight.
func (i *IngredientRecord) Grams() nutrition.Conversion {
	return nutrition.ConvertToGrams(i.Amount, i.Unit, i.Name)
}

// ScaleAmount multiplies the stated amount by factor. An unparseable
// amount is left untouched; the converter's fallback covers it anyway.
func (i *IngredientRecord) ScaleAmount(factor float64) {
	qty, err := strconv.ParseFloat(strings.TrimSpace(i.Amount), 64)
	if err != nil {
		return
	}
	i.Amount = strconv.FormatFloat(qty*factor, 'f', 2, 64)
}

// Meal is an ordered sequence of ingredients with an aggregate snapshot.
type Meal struct {
	Name        string             `json:"name"`
	Type        MealType           `json:"type"`
	PrepMinutes int                `json:"prep_minutes"`
	Ingredients []IngredientRecord `json:"ingredients"`
	Macros      nutrition.Macros   `json:"macros"`
}

// RecomputeMacros sums the ingredient snapshots into the meal aggregate.
// Ingredients without a snapshot contribute nothing.
func (m *Meal) RecomputeMacros() {
	var total nutrition.Macros
	for _, ing := range m.Ingredients {
		if ing.Macros != nil {
			total = total.Add(*ing.Macros)
		}
	}
	m.Macros = total
}

// DayPlan is one labeled day of meals plus its running totals.
type DayPlan struct {
	Day         string           `json:"day"`
	Meals       []Meal           `json:"meals"`
	DailyTotals nutrition.Macros `json:"daily_totals"`
	State       DayState         `json:"state"`
}

// RecomputeTotals recomputes every meal aggregate and the daily total.
// This is the single source of truth after any mutation; totals are
// never updated incrementally.
func (d *DayPlan) RecomputeTotals() {
	var total nutrition.Macros
	for i := range d.Meals {
		d.Meals[i].RecomputeMacros()
		total = total.Add(d.Meals[i].Macros)
	}
	d.DailyTotals = total
	d.State = StateComputed
}

// ScaleIngredients applies one uniform factor to every ingredient amount
// in the day and marks the day adjusted. Totals are stale until the next
// RecomputeTotals.
func (d *DayPlan) ScaleIngredients(factor float64) {
	for i := range d.Meals {
		for j := range d.Meals[i].Ingredients {
			d.Meals[i].Ingredients[j].ScaleAmount(factor)
		}
	}
	d.State = StateAdjusted
}

// WeeklyPlan is the unit of work handed to the validator.
type WeeklyPlan struct {
	Days []DayPlan `json:"days"`
}
