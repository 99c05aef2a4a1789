package plan

import (
	"time"

	"github.com/google/uuid"
)

// LookupWarning records one ingredient that fell back to its original
// macro estimate because no fresh profile could be resolved.
type LookupWarning struct {
	Day        string `json:"day"`
	Meal       string `json:"meal"`
	Ingredient string `json:"ingredient"`
	Reason     string `json:"reason"`
}

// DayReport captures the before/after variance of one day's adjustment.
type DayReport struct {
	Day              string   `json:"day"`
	VarianceBefore   Variance `json:"variance_before"`
	VarianceAfter    Variance `json:"variance_after"`
	Iterations       int      `json:"iterations"`
	WithinTolerance  bool     `json:"within_tolerance"`
	ResidualVariance float64  `json:"residual_variance"`
}

// ValidationSummary is the append-only audit output of a validation run.
// It is handed back to the caller alongside the adjusted plan and is not
// consumed anywhere else in this core.
type ValidationSummary struct {
	ID          uuid.UUID       `json:"id"`
	GeneratedAt time.Time       `json:"generated_at"`
	Days        []DayReport     `json:"days"`
	Warnings    []LookupWarning `json:"warnings"`
}

// NewValidationSummary creates an empty summary for one validation run.
func NewValidationSummary() *ValidationSummary {
	return &ValidationSummary{
		ID:          uuid.New(),
		GeneratedAt: time.Now().UTC(),
	}
}

// AddWarning appends a lookup warning.
func (s *ValidationSummary) AddWarning(w LookupWarning) {
	s.Warnings = append(s.Warnings, w)
}

// AddDayReport appends a per-day report.
func (s *ValidationSummary) AddDayReport(r DayReport) {
	s.Days = append(s.Days, r)
}
