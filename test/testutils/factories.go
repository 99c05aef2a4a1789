// Package testutils provides test data factories for consistent test data generation
package testutils

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/wodplate/v2/internal/domain/nutrition"
	"github.com/wodplate/v2/internal/domain/plan"
)

// KnownProfiles are deterministic per-100g profiles for ingredients the
// tests reference by name. Values track the seed data used in local runs.
var KnownProfiles = map[string]nutrition.Profile{
	"chicken broilers breast meat raw": {Calories: 120, ProteinG: 22.5, CarbsG: 0, FatG: 2.6},
	"rice white long grain raw":        {Calories: 365, ProteinG: 7.1, CarbsG: 80, FatG: 0.7},
	"oats rolled old fashioned dry":    {Calories: 379, ProteinG: 13.2, CarbsG: 67.7, FatG: 6.5},
	"egg":                              {Calories: 143, ProteinG: 12.6, CarbsG: 0.7, FatG: 9.5},
	"oil olive extra virgin":           {Calories: 884, ProteinG: 0, CarbsG: 0, FatG: 100},
	"banana":                           {Calories: 89, ProteinG: 1.1, CarbsG: 22.8, FatG: 0.3},
	"yogurt greek plain whole milk":    {Calories: 97, ProteinG: 9, CarbsG: 3.9, FatG: 5},
	"sweet potato raw unprepared":      {Calories: 86, ProteinG: 1.6, CarbsG: 20.1, FatG: 0.1},
}

// PlanBuilder provides a fluent interface for building test plans
type PlanBuilder struct {
	days []plan.DayPlan
}

// NewPlanBuilder creates an empty plan builder
func NewPlanBuilder() *PlanBuilder {
	return &PlanBuilder{}
}

// WithDay appends a day built from the given meals
func (pb *PlanBuilder) WithDay(day string, meals ...plan.Meal) *PlanBuilder {
	pb.days = append(pb.days, plan.DayPlan{
		Day:   day,
		Meals: meals,
		State: plan.StatePending,
	})
	return pb
}

// Build returns the assembled weekly plan
func (pb *PlanBuilder) Build() plan.WeeklyPlan {
	return plan.WeeklyPlan{Days: pb.days}
}

// NewMeal creates a meal from ingredient records
func NewMeal(name string, mealType plan.MealType, ingredients ...plan.IngredientRecord) plan.Meal {
	return plan.Meal{
		Name:        name,
		Type:        mealType,
		PrepMinutes: 20,
		Ingredients: ingredients,
	}
}

// NewIngredient creates an ingredient record with no macro snapshot
func NewIngredient(name, amount, unit string, category plan.Category) plan.IngredientRecord {
	return plan.IngredientRecord{
		Name:     name,
		Amount:   amount,
		Unit:     unit,
		Category: category,
	}
}

// NewEntry creates a cache entry for a known profile, aged by the given
// duration
func NewEntry(normalizedName string, age time.Duration) nutrition.Entry {
	profile, ok := KnownProfiles[normalizedName]
	if !ok {
		panic(fmt.Sprintf("no known profile for %q", normalizedName))
	}
	return nutrition.Entry{
		NormalizedName: normalizedName,
		Profile:        profile,
		SourceID:       "test",
		LastUpdated:    time.Now().UTC().Add(-age),
	}
}

// RandomPlan generates a structurally valid plan with faked names. Used
// where only the shape matters, never the macro arithmetic.
func RandomPlan(seed int64, days int) plan.WeeklyPlan {
	faker := gofakeit.New(seed)

	pb := NewPlanBuilder()
	for d := 0; d < days; d++ {
		meals := make([]plan.Meal, 0, 3)
		for _, mealType := range []plan.MealType{plan.MealTypeBreakfast, plan.MealTypeLunch, plan.MealTypeDinner} {
			ingredients := make([]plan.IngredientRecord, 0, 3)
			for i := 0; i < 3; i++ {
				ingredients = append(ingredients, NewIngredient(
					faker.Fruit(),
					fmt.Sprintf("%d", faker.Number(1, 4)),
					"cup",
					plan.CategoryProduce,
				))
			}
			meals = append(meals, NewMeal(faker.Dinner(), mealType, ingredients...))
		}
		pb.WithDay(fmt.Sprintf("day-%d", d+1), meals...)
	}
	return pb.Build()
}

// DefaultTargets returns a typical training-day macro target set
func DefaultTargets() plan.UserTargets {
	return plan.UserTargets{
		Calories: 2000,
		ProteinG: 150,
		CarbsG:   200,
		FatG:     70,
	}
}
