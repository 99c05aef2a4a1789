package plan

import (
	"math"

	"github.com/wodplate/v2/internal/domain/nutrition"
)

// UserTargets are the athlete's daily macro goals. Read-only input to
// the validator, sourced externally.
type UserTargets struct {
	Calories float64 `json:"target_calories"`
	ProteinG float64 `json:"target_protein_g"`
	CarbsG   float64 `json:"target_carbs_g"`
	FatG     float64 `json:"target_fat_g"`
}

// Valid reports whether all four targets are positive.
func (t UserTargets) Valid() bool {
	return t.Calories > 0 && t.ProteinG > 0 && t.CarbsG > 0 && t.FatG > 0
}

// Channel names a macro channel in variance reporting.
type Channel string

const (
	ChannelCalories Channel = "calories"
	ChannelProtein  Channel = "protein_g"
	ChannelCarbs    Channel = "carbs_g"
	ChannelFat      Channel = "fat_g"
)

// Variance holds (actual - target) / target per channel.
type Variance struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

// ComputeVariance compares a day's totals against the targets.
func ComputeVariance(actual nutrition.Macros, targets UserTargets) Variance {
	return Variance{
		Calories: relative(float64(actual.Calories), targets.Calories),
		ProteinG: relative(actual.ProteinG, targets.ProteinG),
		CarbsG:   relative(actual.CarbsG, targets.CarbsG),
		FatG:     relative(actual.FatG, targets.FatG),
	}
}

func relative(actual, target float64) float64 {
	if target == 0 {
		return 0
	}
	return (actual - target) / target
}

// WithinTolerance reports whether every channel is inside the band.
func (v Variance) WithinTolerance(tolerance float64) bool {
	return math.Abs(v.Calories) <= tolerance &&
		math.Abs(v.ProteinG) <= tolerance &&
		math.Abs(v.CarbsG) <= tolerance &&
		math.Abs(v.FatG) <= tolerance
}

// MaxAbs returns the magnitude of the worst channel.
func (v Variance) MaxAbs() float64 {
	worst := math.Abs(v.Calories)
	for _, c := range []float64{v.ProteinG, v.CarbsG, v.FatG} {
		if math.Abs(c) > worst {
			worst = math.Abs(c)
		}
	}
	return worst
}

// DominantChannel picks the channel driving the adjustment factor.
// Calories dominate whenever they are out of band, because the three
// gram channels feed the calorie total; otherwise the channel with the
// largest absolute variance wins.
func (v Variance) DominantChannel(tolerance float64) Channel {
	if math.Abs(v.Calories) > tolerance {
		return ChannelCalories
	}
	dominant := ChannelProtein
	worst := math.Abs(v.ProteinG)
	if math.Abs(v.CarbsG) > worst {
		dominant, worst = ChannelCarbs, math.Abs(v.CarbsG)
	}
	if math.Abs(v.FatG) > worst {
		dominant = ChannelFat
	}
	return dominant
}

// ScaleFactor computes target/actual for the dominant channel; it is
// applied uniformly to every ingredient amount in the day. Returns 1
// when the actual total is zero, since scaling an empty day is a no-op.
func ScaleFactor(actual nutrition.Macros, targets UserTargets, channel Channel) float64 {
	var a, t float64
	switch channel {
	case ChannelProtein:
		a, t = actual.ProteinG, targets.ProteinG
	case ChannelCarbs:
		a, t = actual.CarbsG, targets.CarbsG
	case ChannelFat:
		a, t = actual.FatG, targets.FatG
	default:
		a, t = float64(actual.Calories), targets.Calories
	}
	if a <= 0 || t <= 0 {
		return 1
	}
	return t / a
}
