// Package handlers provides the REST API handlers for plan validation
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/wodplate/v2/internal/domain/nutrition"
	"github.com/wodplate/v2/internal/domain/plan"
	"github.com/wodplate/v2/internal/ports/inbound"
	"github.com/wodplate/v2/pkg/errors"
	"go.uber.org/zap"
)

// PlanHandler exposes the validate-and-adjust use case over HTTP.
type PlanHandler struct {
	planService inbound.PlanService
	logger      *zap.Logger
}

// NewPlanHandler creates a new plan API handler.
func NewPlanHandler(planService inbound.PlanService, logger *zap.Logger) *PlanHandler {
	return &PlanHandler{
		planService: planService,
		logger:      logger.Named("plan-api"),
	}
}

// RegisterRoutes registers plan routes on the API group.
func (h *PlanHandler) RegisterRoutes(r *gin.RouterGroup) {
	plans := r.Group("/plans")
	{
		plans.POST("/validate", h.ValidatePlan)
	}
}

// validatePlanRequest is the inbound payload. Amounts stay strings all
// the way through; the converter owns their interpretation.
type validatePlanRequest struct {
	Plan    planPayload    `json:"plan" binding:"required"`
	Targets targetsPayload `json:"targets" binding:"required"`
}

type targetsPayload struct {
	Calories float64 `json:"calories" binding:"required,gt=0"`
	ProteinG float64 `json:"protein_g" binding:"required,gt=0"`
	CarbsG   float64 `json:"carbs_g" binding:"required,gt=0"`
	FatG     float64 `json:"fat_g" binding:"required,gt=0"`
}

type planPayload struct {
	Days []dayPayload `json:"days" binding:"required,min=1,dive"`
}

type dayPayload struct {
	Day   string        `json:"day" binding:"required"`
	Meals []mealPayload `json:"meals" binding:"dive"`
}

type mealPayload struct {
	Name        string              `json:"name" binding:"required"`
	Type        string              `json:"type" binding:"omitempty,oneof=breakfast lunch dinner snack"`
	PrepMinutes int                 `json:"prep_minutes" binding:"omitempty,min=0"`
	Ingredients []ingredientPayload `json:"ingredients" binding:"dive"`
}

type ingredientPayload struct {
	Name     string         `json:"name" binding:"required"`
	Amount   string         `json:"amount"`
	Unit     string         `json:"unit"`
	Category string         `json:"category" binding:"omitempty,oneof=produce protein dairy grains pantry frozen other"`
	Macros   *macrosPayload `json:"macros"`
}

// macrosPayload is the generator's initial macro estimate. It seeds the
// fallback path: an ingredient whose lookup fails keeps this estimate.
type macrosPayload struct {
	Calories int     `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// validatePlanResponse carries the adjusted plan and its audit summary.
type validatePlanResponse struct {
	Status  string                  `json:"status"`
	Plan    plan.WeeklyPlan         `json:"plan"`
	Summary *plan.ValidationSummary `json:"summary"`
}

// ValidatePlan handles POST /plans/validate. The response always
// includes a plan: adjustment shortfalls and lookup failures are
// reported inside the summary, not as HTTP errors.
func (h *PlanHandler) ValidatePlan(c *gin.Context) {
	var req validatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(
			errors.NewValidationError(err.Error()),
			requestID(c),
		))
		return
	}

	result, err := h.planService.ValidateAndAdjust(c.Request.Context(), inbound.ValidateCommand{
		Plan:    toDomainPlan(req.Plan),
		Targets: toDomainTargets(req.Targets),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, validatePlanResponse{
		Status:  "success",
		Plan:    result.Plan,
		Summary: result.Summary,
	})
}

// respondError maps application errors to HTTP responses.
func (h *PlanHandler) respondError(c *gin.Context, err error) {
	appErr := errors.Wrap(err, "plan validation failed")
	if appErr.StatusCode() >= http.StatusInternalServerError {
		h.logger.Error("Plan validation failed", zap.Error(err))
	} else {
		h.logger.Warn("Plan validation rejected", zap.Error(err))
	}
	c.JSON(appErr.StatusCode(), errors.ToErrorResponse(appErr, requestID(c)))
}

func toDomainPlan(p planPayload) plan.WeeklyPlan {
	days := make([]plan.DayPlan, 0, len(p.Days))
	for _, d := range p.Days {
		meals := make([]plan.Meal, 0, len(d.Meals))
		for _, m := range d.Meals {
			ingredients := make([]plan.IngredientRecord, 0, len(m.Ingredients))
			for _, ing := range m.Ingredients {
				category := plan.Category(ing.Category)
				if category == "" {
					category = plan.CategoryOther
				}
				var estimate *nutrition.Macros
				if ing.Macros != nil {
					estimate = &nutrition.Macros{
						Calories: ing.Macros.Calories,
						ProteinG: ing.Macros.ProteinG,
						CarbsG:   ing.Macros.CarbsG,
						FatG:     ing.Macros.FatG,
					}
				}
				ingredients = append(ingredients, plan.IngredientRecord{
					Name:     ing.Name,
					Amount:   ing.Amount,
					Unit:     ing.Unit,
					Category: category,
					Macros:   estimate,
				})
			}
			meals = append(meals, plan.Meal{
				Name:        m.Name,
				Type:        plan.MealType(m.Type),
				PrepMinutes: m.PrepMinutes,
				Ingredients: ingredients,
			})
		}
		days = append(days, plan.DayPlan{
			Day:   d.Day,
			Meals: meals,
			State: plan.StatePending,
		})
	}
	return plan.WeeklyPlan{Days: days}
}

func toDomainTargets(t targetsPayload) plan.UserTargets {
	return plan.UserTargets{
		Calories: t.Calories,
		ProteinG: t.ProteinG,
		CarbsG:   t.CarbsG,
		FatG:     t.FatG,
	}
}

// requestID returns the request id set by the middleware, minting one
// only if the middleware chain was bypassed.
func requestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return uuid.NewString()
}
