/*
monthly.go - One (company, month) computation

PURPOSE:
  Orchestrates the filter and the two calculators for a single month:
  ActiveRoster -> {LevyCalculator, IncentiveCalculator}. The two
  calculators share the filtered roster but are otherwise independent;
  neither reads the other's output.

DETERMINISM:
  The result is a pure function of (roster, month context, policy,
  variant). Identical inputs produce bit-identical output - no clock, no
  randomness - so callers may memoize results keyed by roster snapshot
  and policy version, and must never silently recompute with a different
  policy version when audit figures are at stake.
*/
package engine

// MonthlyEngine computes a complete MonthlyComplianceResult for one
// (company, month) pair.
type MonthlyEngine struct {
	Policy  *YearPolicy
	Variant WeightingVariant
}

// Compute runs the full monthly calculation. It returns either a complete
// result or a typed failure; never a partial result.
func (e MonthlyEngine) Compute(mc MonthContext, roster []WorkerRecord) (*MonthlyComplianceResult, error) {
	active, err := ActiveRoster(roster, mc.EvaluationDate)
	if err != nil {
		return nil, err
	}

	levy, err := LevyCalculator{Policy: e.Policy, Variant: e.Variant}.Calculate(mc, active)
	if err != nil {
		return nil, err
	}

	incentive, err := IncentiveCalculator{Policy: e.Policy}.Calculate(mc, active)
	if err != nil {
		return nil, err
	}

	return &MonthlyComplianceResult{
		Year:  mc.Year,
		Month: mc.Month(),

		TotalHeadcount:    mc.TotalHeadcount,
		DisabledHeadcount: len(active),

		ObligatedHeadcount:  levy.ObligatedHeadcount,
		RecognizedHeadcount: levy.RecognizedHeadcount,
		Shortfall:           levy.Shortfall,
		LevyBaseAmount:      levy.LevyBaseAmount,
		LevyAmount:          levy.LevyAmount,

		BaselineCount:   incentive.BaselineCount,
		EligibleCount:   incentive.EligibleCount,
		ExcludedCount:   incentive.ExcludedCount,
		IncentiveAmount: incentive.IncentiveAmount,

		Lines: incentive.Lines,
	}, nil
}
