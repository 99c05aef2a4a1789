// Package plan provides the application layer for plan validation:
// it recomputes every ingredient's macros from cached or fetched
// profiles and rescales portions until daily totals sit inside the
// tolerance band of the athlete's targets.
package plan

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/wodplate/v2/internal/domain/nutrition"
	"github.com/wodplate/v2/internal/domain/plan"
	"github.com/wodplate/v2/internal/infrastructure/config"
	"github.com/wodplate/v2/internal/infrastructure/monitoring"
	"github.com/wodplate/v2/internal/ports/inbound"
	"github.com/wodplate/v2/pkg/errors"
	"go.uber.org/zap"
)

// ProfileSource resolves a normalized ingredient name to a per-100g
// profile. The nutrition cache service implements it.
type ProfileSource interface {
	GetOrFetch(ctx context.Context, name string) (*nutrition.Profile, error)
}

// Service implements the plan validation use case.
type Service struct {
	profiles      ProfileSource
	tolerance     float64
	maxIterations int
	concurrency   int
	metrics       *monitoring.Metrics
	logger        *zap.Logger
}

// NewService creates a new plan validation service.
func NewService(
	profiles ProfileSource,
	cfg config.ReconcileConfig,
	metrics *monitoring.Metrics,
	logger *zap.Logger,
) inbound.PlanService {
	return &Service{
		profiles:      profiles,
		tolerance:     cfg.Tolerance,
		maxIterations: cfg.MaxIterations,
		concurrency:   cfg.LookupConcurrency,
		metrics:       metrics,
		logger:        logger.Named("plan-service"),
	}
}

// ValidateAndAdjust reconciles every day of the plan against the
// targets. Days are independent; within a day, ingredient lookups run
// concurrently and the aggregation step waits for all of them. The
// method always returns a plan for a structurally valid command —
// lookup failures degrade to summary warnings.
func (s *Service) ValidateAndAdjust(ctx context.Context, cmd inbound.ValidateCommand) (*inbound.ValidatedPlan, error) {
	if len(cmd.Plan.Days) == 0 {
		return nil, errors.NewValidationError(plan.ErrNoDays.Error())
	}
	if !cmd.Targets.Valid() {
		return nil, errors.NewValidationError(plan.ErrInvalidTargets.Error())
	}

	s.logger.Info("Validating plan",
		zap.Int("days", len(cmd.Plan.Days)),
		zap.Float64("target_calories", cmd.Targets.Calories),
	)

	summary := plan.NewValidationSummary()
	result := cmd.Plan

	for i := range result.Days {
		s.reconcileDay(ctx, &result.Days[i], cmd.Targets, summary)
	}

	s.logger.Info("Plan validated",
		zap.String("summary_id", summary.ID.String()),
		zap.Int("warnings", len(summary.Warnings)),
	)

	return &inbound.ValidatedPlan{Plan: result, Summary: summary}, nil
}

// reconcileDay drives one day through the bounded adjustment loop:
// Pending -> Computed -> (WithinTolerance | NeedsAdjustment -> Adjusted
// -> Computed -> ...) -> Final. The loop performs at most maxIterations
// adjustment passes; after that the last result is accepted and the
// residual variance recorded. There is no failure state.
func (s *Service) reconcileDay(ctx context.Context, day *plan.DayPlan, targets plan.UserTargets, summary *plan.ValidationSummary) {
	day.State = plan.StatePending

	report := plan.DayReport{Day: day.Day}

	for attempt := 0; ; attempt++ {
		// Warnings are recorded on the first pass only; later passes
		// fail on the same ingredients.
		s.refreshDay(ctx, day, summary, attempt == 0)
		day.RecomputeTotals()

		variance := plan.ComputeVariance(day.DailyTotals, targets)
		if attempt == 0 {
			report.VarianceBefore = variance
		}
		report.VarianceAfter = variance

		if variance.WithinTolerance(s.tolerance) {
			day.State = plan.StateWithinTolerance
			report.WithinTolerance = true
			break
		}
		day.State = plan.StateNeedsAdjustment

		if attempt >= s.maxIterations {
			s.logger.Warn("Iteration budget exhausted",
				zap.String("day", day.Day),
				zap.Float64("residual_variance", variance.MaxAbs()),
			)
			break
		}

		channel := variance.DominantChannel(s.tolerance)
		factor := plan.ScaleFactor(day.DailyTotals, targets, channel)
		s.logger.Debug("Adjusting day",
			zap.String("day", day.Day),
			zap.String("channel", string(channel)),
			zap.Float64("factor", factor),
		)

		day.ScaleIngredients(factor)
		report.Iterations = attempt + 1
	}

	day.State = plan.StateFinal
	report.ResidualVariance = report.VarianceAfter.MaxAbs()
	s.metrics.AdjustmentIterations.Observe(float64(report.Iterations))
	summary.AddDayReport(report)
}

// refreshDay recomputes every ingredient's macro snapshot concurrently.
// A failed lookup retains whatever estimate the ingredient already
// carried; a malformed amount is reported once while the converter's
// fallback weight still applies. All lookups complete before the caller
// aggregates totals.
func (s *Service) refreshDay(ctx context.Context, day *plan.DayPlan, summary *plan.ValidationSummary, collectWarnings bool) {
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, s.concurrency)
	)

	for mi := range day.Meals {
		meal := &day.Meals[mi]
		for ii := range meal.Ingredients {
			ing := &meal.Ingredients[ii]

			wg.Add(1)
			sem <- struct{}{}
			go func(mealName string, ing *plan.IngredientRecord) {
				defer wg.Done()
				defer func() { <-sem }()

				if collectWarnings {
					if _, perr := strconv.ParseFloat(strings.TrimSpace(ing.Amount), 64); perr != nil {
						mu.Lock()
						summary.AddWarning(plan.LookupWarning{
							Day:        day.Day,
							Meal:       mealName,
							Ingredient: ing.Name,
							Reason:     errors.NewParseError("amount", ing.Amount).Error(),
						})
						mu.Unlock()
					}
				}

				profile, err := s.profiles.GetOrFetch(ctx, nutrition.Normalize(ing.Name))
				if err != nil {
					s.metrics.LookupFallbacks.Inc()
					if collectWarnings {
						mu.Lock()
						summary.AddWarning(plan.LookupWarning{
							Day:        day.Day,
							Meal:       mealName,
							Ingredient: ing.Name,
							Reason:     err.Error(),
						})
						mu.Unlock()
					}
					return
				}

				conv := ing.Grams()
				macros := nutrition.ScaleProfile(*profile, conv.Grams)
				ing.Macros = &macros
			}(meal.Name, ing)
		}
	}

	wg.Wait()
}
