package plan

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/wodplate/v2/internal/domain/nutrition"
	domainplan "github.com/wodplate/v2/internal/domain/plan"
	"github.com/wodplate/v2/internal/infrastructure/config"
	"github.com/wodplate/v2/internal/infrastructure/monitoring"
	"github.com/wodplate/v2/internal/ports/inbound"
	apperrors "github.com/wodplate/v2/pkg/errors"
	"github.com/wodplate/v2/test/testutils"
	"go.uber.org/zap"
)

// fakeProfiles serves profiles from a fixed map and fails on anything else.
type fakeProfiles struct {
	mu       sync.Mutex
	profiles map[string]nutrition.Profile
	lookups  int
}

func (f *fakeProfiles) GetOrFetch(ctx context.Context, name string) (*nutrition.Profile, error) {
	f.mu.Lock()
	f.lookups++
	f.mu.Unlock()

	profile, ok := f.profiles[name]
	if !ok {
		return nil, apperrors.NewFoodNotFoundError(name)
	}
	return &profile, nil
}

// PlanServiceTestSuite covers the validate-and-adjust loop.
type PlanServiceTestSuite struct {
	suite.Suite
	profiles *fakeProfiles
	service  inbound.PlanService
}

func (s *PlanServiceTestSuite) SetupTest() {
	// One uniform profile keeps the arithmetic exact: 100g contributes
	// precisely 1/20 of the default targets.
	s.profiles = &fakeProfiles{profiles: map[string]nutrition.Profile{
		"whey protein powder isolate": {Calories: 100, ProteinG: 7.5, CarbsG: 10, FatG: 3.5},
	}}
	cfg := config.ReconcileConfig{Tolerance: 0.05, MaxIterations: 4, LookupConcurrency: 4}
	s.service = NewService(s.profiles, cfg, monitoring.New(), zap.NewNop())
}

func (s *PlanServiceTestSuite) targets() domainplan.UserTargets {
	return testutils.DefaultTargets()
}

func (s *PlanServiceTestSuite) singleDayPlan(amountGrams string) domainplan.WeeklyPlan {
	return testutils.NewPlanBuilder().
		WithDay("monday", testutils.NewMeal("Shake", domainplan.MealTypeBreakfast,
			testutils.NewIngredient("whey protein", amountGrams, "g", domainplan.CategoryPantry),
		)).
		Build()
}

func (s *PlanServiceTestSuite) TestRejectsEmptyPlan() {
	_, err := s.service.ValidateAndAdjust(context.Background(), inbound.ValidateCommand{
		Targets: s.targets(),
	})

	require.Error(s.T(), err)
	assert.True(s.T(), apperrors.Is(err, apperrors.CodeValidationFailed))
}

func (s *PlanServiceTestSuite) TestRejectsInvalidTargets() {
	_, err := s.service.ValidateAndAdjust(context.Background(), inbound.ValidateCommand{
		Plan: s.singleDayPlan("1000"),
	})

	require.Error(s.T(), err)
	assert.True(s.T(), apperrors.Is(err, apperrors.CodeValidationFailed))
}

func (s *PlanServiceTestSuite) TestWithinToleranceUntouched() {
	result, err := s.service.ValidateAndAdjust(context.Background(), inbound.ValidateCommand{
		Plan:    s.singleDayPlan("2000"),
		Targets: s.targets(),
	})
	require.NoError(s.T(), err)

	day := result.Plan.Days[0]
	assert.Equal(s.T(), domainplan.StateFinal, day.State)
	assert.Equal(s.T(), "2000", day.Meals[0].Ingredients[0].Amount)
	assert.Equal(s.T(), 2000, day.DailyTotals.Calories)

	report := result.Summary.Days[0]
	assert.True(s.T(), report.WithinTolerance)
	assert.Zero(s.T(), report.Iterations)
	assert.InDelta(s.T(), 0.0, report.ResidualVariance, 0.0001)
	assert.Empty(s.T(), result.Summary.Warnings)
}

func (s *PlanServiceTestSuite) TestAdjustsUndershootingDay() {
	result, err := s.service.ValidateAndAdjust(context.Background(), inbound.ValidateCommand{
		Plan:    s.singleDayPlan("1000"),
		Targets: s.targets(),
	})
	require.NoError(s.T(), err)

	day := result.Plan.Days[0]
	assert.Equal(s.T(), domainplan.StateFinal, day.State)
	assert.Equal(s.T(), "2000.00", day.Meals[0].Ingredients[0].Amount)
	assert.Equal(s.T(), 2000, day.DailyTotals.Calories)
	assert.InDelta(s.T(), 150.0, day.DailyTotals.ProteinG, 0.001)

	report := result.Summary.Days[0]
	assert.Equal(s.T(), 1, report.Iterations)
	assert.True(s.T(), report.WithinTolerance)
	assert.InDelta(s.T(), -0.5, report.VarianceBefore.Calories, 0.0001)
	assert.InDelta(s.T(), 0.0, report.VarianceAfter.Calories, 0.0001)
}

func (s *PlanServiceTestSuite) TestAdjustmentIsIdempotent() {
	first, err := s.service.ValidateAndAdjust(context.Background(), inbound.ValidateCommand{
		Plan:    s.singleDayPlan("1000"),
		Targets: s.targets(),
	})
	require.NoError(s.T(), err)

	second, err := s.service.ValidateAndAdjust(context.Background(), inbound.ValidateCommand{
		Plan:    first.Plan,
		Targets: s.targets(),
	})
	require.NoError(s.T(), err)

	assert.Equal(s.T(), first.Plan.Days[0].DailyTotals, second.Plan.Days[0].DailyTotals)
	assert.Equal(s.T(),
		first.Plan.Days[0].Meals[0].Ingredients[0].Amount,
		second.Plan.Days[0].Meals[0].Ingredients[0].Amount,
	)
	assert.Zero(s.T(), second.Summary.Days[0].Iterations)
}

func (s *PlanServiceTestSuite) TestLookupFailureDegradesToWarning() {
	plan := s.singleDayPlan("1000")
	plan.Days[0].Meals[0].Ingredients[0].Name = "unicorn steak"

	result, err := s.service.ValidateAndAdjust(context.Background(), inbound.ValidateCommand{
		Plan:    plan,
		Targets: s.targets(),
	})

	// A plan always comes back; the shortfall lives in the summary.
	require.NoError(s.T(), err)
	require.NotNil(s.T(), result)

	day := result.Plan.Days[0]
	assert.Equal(s.T(), domainplan.StateFinal, day.State)
	assert.Zero(s.T(), day.DailyTotals.Calories)

	// One warning for the ingredient, not one per loop pass.
	require.Len(s.T(), result.Summary.Warnings, 1)
	assert.Equal(s.T(), "unicorn steak", result.Summary.Warnings[0].Ingredient)
	assert.Equal(s.T(), "monday", result.Summary.Warnings[0].Day)

	report := result.Summary.Days[0]
	assert.False(s.T(), report.WithinTolerance)
	assert.Equal(s.T(), 4, report.Iterations)
	assert.InDelta(s.T(), 1.0, report.ResidualVariance, 0.0001)
}

func (s *PlanServiceTestSuite) TestFailedLookupKeepsPriorEstimate() {
	prior := nutrition.Macros{Calories: 500, ProteinG: 40, CarbsG: 50, FatG: 15}
	plan := s.singleDayPlan("1000")
	plan.Days[0].Meals[0].Ingredients[0].Name = "unicorn steak"
	plan.Days[0].Meals[0].Ingredients[0].Macros = &prior

	result, err := s.service.ValidateAndAdjust(context.Background(), inbound.ValidateCommand{
		Plan:    plan,
		Targets: s.targets(),
	})
	require.NoError(s.T(), err)

	// The stale estimate still feeds the totals instead of dropping to zero.
	assert.Equal(s.T(), 500, result.Plan.Days[0].DailyTotals.Calories)
	require.Len(s.T(), result.Summary.Warnings, 1)
}

func (s *PlanServiceTestSuite) TestMalformedAmountIsReported() {
	result, err := s.service.ValidateAndAdjust(context.Background(), inbound.ValidateCommand{
		Plan:    s.singleDayPlan("a few"),
		Targets: s.targets(),
	})
	require.NoError(s.T(), err)

	// The converter's 100g fallback still feeds the totals.
	assert.Equal(s.T(), 100, result.Plan.Days[0].DailyTotals.Calories)

	// One warning naming the malformed amount, recorded on the first
	// pass only.
	require.Len(s.T(), result.Summary.Warnings, 1)
	warning := result.Summary.Warnings[0]
	assert.Equal(s.T(), "whey protein", warning.Ingredient)
	assert.Contains(s.T(), warning.Reason, "PARSE_ERROR")
	assert.Contains(s.T(), warning.Reason, "a few")
}

func (s *PlanServiceTestSuite) TestDaysReconcileIndependently() {
	plan := domainplan.WeeklyPlan{Days: []domainplan.DayPlan{
		s.singleDayPlan("2000").Days[0],
		s.singleDayPlan("1000").Days[0],
	}}
	plan.Days[1].Day = "tuesday"

	result, err := s.service.ValidateAndAdjust(context.Background(), inbound.ValidateCommand{
		Plan:    plan,
		Targets: s.targets(),
	})
	require.NoError(s.T(), err)

	require.Len(s.T(), result.Summary.Days, 2)
	assert.Zero(s.T(), result.Summary.Days[0].Iterations)
	assert.Equal(s.T(), 1, result.Summary.Days[1].Iterations)
	assert.Equal(s.T(), 2000, result.Plan.Days[0].DailyTotals.Calories)
	assert.Equal(s.T(), 2000, result.Plan.Days[1].DailyTotals.Calories)
}

func (s *PlanServiceTestSuite) TestUndershootOnAllChannels() {
	// A day at 1700 kcal / 130g protein / 180g carbs / 60g fat against
	// 2000/150/200/70 targets: every channel is more than 5% under. The
	// loop must terminate inside the budget and may not leave the day
	// worse than it started.
	s.profiles.profiles["trail mix"] = nutrition.Profile{Calories: 170, ProteinG: 13, CarbsG: 18, FatG: 6}

	plan := s.singleDayPlan("1000")
	plan.Days[0].Meals[0].Ingredients[0].Name = "trail mix"

	result, err := s.service.ValidateAndAdjust(context.Background(), inbound.ValidateCommand{
		Plan:    plan,
		Targets: s.targets(),
	})
	require.NoError(s.T(), err)

	report := result.Summary.Days[0]
	assert.InDelta(s.T(), -0.15, report.VarianceBefore.Calories, 0.001)
	assert.InDelta(s.T(), -0.1429, report.VarianceBefore.FatG, 0.001)

	// Within tolerance or budget exhausted, never looping past it.
	assert.LessOrEqual(s.T(), report.Iterations, 4)
	if !report.WithinTolerance {
		assert.Equal(s.T(), 4, report.Iterations)
	}
	assert.Less(s.T(), report.ResidualVariance, 0.15)
	assert.Equal(s.T(), domainplan.StateFinal, result.Plan.Days[0].State)
	assert.Empty(s.T(), result.Summary.Warnings)
}

func (s *PlanServiceTestSuite) TestIterationBudgetIsBounded() {
	// An always-failing source can never converge; the loop must stop at
	// the configured budget instead of spinning.
	failing := &fakeProfiles{profiles: map[string]nutrition.Profile{}}
	cfg := config.ReconcileConfig{Tolerance: 0.05, MaxIterations: 2, LookupConcurrency: 2}
	service := NewService(failing, cfg, monitoring.New(), zap.NewNop())

	result, err := service.ValidateAndAdjust(context.Background(), inbound.ValidateCommand{
		Plan:    s.singleDayPlan("1000"),
		Targets: s.targets(),
	})
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, result.Summary.Days[0].Iterations)
	assert.Equal(s.T(), domainplan.StateFinal, result.Plan.Days[0].State)
}

func TestPlanServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PlanServiceTestSuite))
}

func TestNormalizeFeedsLookups(t *testing.T) {
	// Ingredient names go through the synonym table before hitting the
	// profile source.
	profiles := &fakeProfiles{profiles: map[string]nutrition.Profile{
		"chicken broilers breast meat raw": {Calories: 120, ProteinG: 22.5, CarbsG: 0, FatG: 2.6},
	}}
	cfg := config.ReconcileConfig{Tolerance: 0.5, MaxIterations: 1, LookupConcurrency: 1}
	service := NewService(profiles, cfg, monitoring.New(), zap.NewNop())

	weekly := testutils.NewPlanBuilder().
		WithDay("monday", testutils.NewMeal("Dinner", domainplan.MealTypeDinner,
			testutils.NewIngredient("Chicken Breast", "200", "g", domainplan.CategoryProtein),
		)).
		Build()

	result, err := service.ValidateAndAdjust(context.Background(), inbound.ValidateCommand{
		Plan:    weekly,
		Targets: domainplan.UserTargets{Calories: 240, ProteinG: 45, CarbsG: 10, FatG: 6},
	})
	require.NoError(t, err)
	assert.Empty(t, result.Summary.Warnings)
	assert.Equal(t, 240, result.Plan.Days[0].DailyTotals.Calories)
}
