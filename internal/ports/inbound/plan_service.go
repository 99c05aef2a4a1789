// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
package inbound

import (
	"context"

	"github.com/wodplate/v2/internal/domain/plan"
)

// ValidateCommand carries a generated weekly plan and the athlete's
// daily targets into the reconciliation core.
type ValidateCommand struct {
	Plan    plan.WeeklyPlan
	Targets plan.UserTargets
}

// ValidatedPlan is the adjusted plan plus its audit summary.
type ValidatedPlan struct {
	Plan    plan.WeeklyPlan
	Summary *plan.ValidationSummary
}

// PlanService validates and adjusts weekly plans. The contract
// guarantees a plan is always returned for a structurally valid
// command; lookup failures degrade to warnings, never to errors.
type PlanService interface {
	ValidateAndAdjust(ctx context.Context, cmd ValidateCommand) (*ValidatedPlan, error)
}
