/*
levy.go - Obligated headcount, recognized headcount, and the shortfall levy

PURPOSE:
  Computes the levy side of a month: how many disabled workers the
  employer was obligated to employ (floor rounding), how many it is
  recognized as employing (severity/hours weighted), and the resulting
  levy for the shortfall.

WEIGHTING:
  Canonical rule: a SEVERE worker whose monthly hours (weekly hours x
  average weeks per month) reach 60 counts double; everyone else counts
  once. This is the rule wired into the live dashboard path.

  WeightingLegacySeed reproduces a historical seeding-script formula that
  additionally adds 0.5 for female workers and halves sub-20-hour
  workers. It exists only for comparison against old seeded figures and
  is never the default; a regression test asserts the two diverge.

ZERO SHORTFALL:
  A shortfall of zero is a valid zero-levy outcome, not a failure.
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// WEIGHTING VARIANTS
// =============================================================================

type WeightingVariant string

const (
	// WeightingStandard is the canonical rule: SEVERE at >= 60 monthly
	// hours counts as 2, everyone else as 1.
	WeightingStandard WeightingVariant = "standard"

	// WeightingLegacySeed is the historical seeding-script formula:
	// base weight, then +0.5 for female workers, then x0.5 for workers
	// under 20 weekly hours. Kept only for comparison runs.
	WeightingLegacySeed WeightingVariant = "legacy_seed"
)

var (
	doubleCountHours = decimal.NewFromInt(60) // monthly hours for the x2 severe weight
	half             = decimal.RequireFromString("0.5")
)

// WorkerWeight returns the recognized-headcount contribution of one
// active worker under the given variant.
func WorkerWeight(w WorkerRecord, variant WeightingVariant) decimal.Decimal {
	weight := decimal.NewFromInt(1)
	if w.Severity == SeveritySevere && w.MonthlyHours().GreaterThanOrEqual(doubleCountHours) {
		weight = decimal.NewFromInt(2)
	}
	if variant != WeightingLegacySeed {
		return weight
	}
	if w.Gender == GenderFemale {
		weight = weight.Add(half)
	}
	if w.WeeklyHours < 20 {
		weight = weight.Mul(half)
	}
	return weight
}

// RecognizedHeadcount sums worker weights over the active roster.
func RecognizedHeadcount(active []WorkerRecord, variant WeightingVariant) decimal.Decimal {
	total := decimal.Zero
	for _, w := range active {
		total = total.Add(WorkerWeight(w, variant))
	}
	return total
}

// =============================================================================
// LEVY CALCULATOR
// =============================================================================

// LevyFigures is the levy side of one month's result.
type LevyFigures struct {
	ObligatedHeadcount  int64
	RecognizedHeadcount decimal.Decimal
	Shortfall           decimal.Decimal
	LevyBaseAmount      decimal.Decimal
	LevyAmount          decimal.Decimal
}

// LevyCalculator computes the monthly shortfall levy. Pure; holds only
// the policy value and the weighting variant.
type LevyCalculator struct {
	Policy  *YearPolicy
	Variant WeightingVariant
}

// Calculate computes obligated headcount (floor of headcount x rate),
// recognized headcount, shortfall, and the levy amount for the month.
func (c LevyCalculator) Calculate(mc MonthContext, active []WorkerRecord) (LevyFigures, error) {
	rate, err := c.Policy.QuotaRateFor(mc.Category)
	if err != nil {
		return LevyFigures{}, err
	}

	obligated := decimal.NewFromInt(int64(mc.TotalHeadcount)).Mul(rate).Floor().IntPart()
	recognized := RecognizedHeadcount(active, c.Variant)

	shortfall := decimal.NewFromInt(obligated).Sub(recognized)
	if shortfall.IsNegative() {
		shortfall = decimal.Zero
	}

	base, err := c.Policy.LevyBaseFor(TierFor(mc.TotalHeadcount))
	if err != nil {
		return LevyFigures{}, err
	}

	return LevyFigures{
		ObligatedHeadcount:  obligated,
		RecognizedHeadcount: recognized,
		Shortfall:           shortfall,
		LevyBaseAmount:      base,
		LevyAmount:          shortfall.Mul(base),
	}, nil
}
