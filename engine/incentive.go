/*
incentive.go - Baseline-rank exclusion and per-worker incentive rates

PURPOSE:
  Computes the incentive side of a month. Most of the engine's branching
  lives here: the baseline free allowance (ceil rounding - deliberately
  the OPPOSITE rounding of the levy's obligated headcount, on the same
  rate), rank assignment over the ordered roster, the multi-step
  exclusion classification, and the wage-capped per-worker rate.

CLASSIFICATION STATE MACHINE:
  Each active worker enters in rank order and lands in exactly one
  terminal classification; the first matching step wins:

    1. WITHIN_BASELINE         rank <= baselineCount
    2. EXCLUDED_NO_INSURANCE   no employment insurance
    3. EXCLUDED_BELOW_MIN_WAGE below the statutory minimum wage
    4. EXCLUDED_PERIOD_EXPIRED monthsWorked > support period limit
                               (24 months severe, 12 mild; strict >)
    5. ELIGIBLE                everything else

  WITHIN_BASELINE is not an exclusion - those workers simply haven't
  passed the free quota. Exclusions strictly reduce the naive
  (disabledHeadcount - baselineCount) figure:

    eligibleCount = max(0, disabled - baseline) - excludedCount

PER-WORKER RATE:
  appliedRate = min(unitRate[severity][gender], floor(salary x 0.6)).
  The wage cap floors to whole currency units; no fractional currency is
  ever produced.
*/
package engine

import "github.com/shopspring/decimal"

// =============================================================================
// CLASSIFICATION
// =============================================================================

type Classification string

const (
	WithinBaseline        Classification = "within_baseline"
	ExcludedNoInsurance   Classification = "excluded_no_insurance"
	ExcludedBelowMinWage  Classification = "excluded_below_min_wage"
	ExcludedPeriodExpired Classification = "excluded_period_expired"
	Eligible              Classification = "eligible"
)

// IsExclusion reports whether the classification removes an over-baseline
// worker from the incentive. WithinBaseline is NOT an exclusion.
func (c Classification) IsExclusion() bool {
	switch c {
	case ExcludedNoInsurance, ExcludedBelowMinWage, ExcludedPeriodExpired:
		return true
	}
	return false
}

// SupportPeriodLimit returns the maximum whole months a worker of the
// given severity may generate incentive eligibility.
func SupportPeriodLimit(severity Severity) int {
	if severity == SeveritySevere {
		return 24
	}
	return 12
}

// WageCapRate caps the per-worker incentive at 60% of monthly salary.
var WageCapRate = decimal.RequireFromString("0.6")

// =============================================================================
// INCENTIVE CALCULATOR
// =============================================================================

// IncentiveFigures is the incentive side of one month's result.
type IncentiveFigures struct {
	BaselineCount   int64
	EligibleCount   int
	ExcludedCount   int
	IncentiveAmount decimal.Decimal
	Lines           []EmployeeIncentiveLine
}

// IncentiveCalculator computes the eligible incentive total. Pure.
type IncentiveCalculator struct {
	Policy *YearPolicy
}

// Calculate assigns ranks over the ordered active roster, classifies each
// worker, and sums the applied rates of the eligible ones. The roster
// MUST already be in ActiveRoster order; rank is 1-based position.
func (c IncentiveCalculator) Calculate(mc MonthContext, active []WorkerRecord) (IncentiveFigures, error) {
	rate, err := c.Policy.QuotaRateFor(mc.Category)
	if err != nil {
		return IncentiveFigures{}, err
	}

	baseline := decimal.NewFromInt(int64(mc.TotalHeadcount)).Mul(rate).Ceil().IntPart()

	out := IncentiveFigures{
		BaselineCount:   baseline,
		IncentiveAmount: decimal.Zero,
		Lines:           make([]EmployeeIncentiveLine, 0, len(active)),
	}

	for i, w := range active {
		rank := i + 1
		months := WholeMonthsBetween(w.HireDate, mc.EvaluationDate)

		line := EmployeeIncentiveLine{
			WorkerID:       w.ID,
			Rank:           rank,
			MonthsWorked:   months,
			Classification: classify(w, rank, baseline, months),
			UnitRate:       decimal.Zero,
			WageCap:        decimal.Zero,
			AppliedRate:    decimal.Zero,
		}

		switch {
		case line.Classification.IsExclusion():
			out.ExcludedCount++
		case line.Classification == Eligible:
			unitRate, err := c.Policy.UnitRateFor(w.Severity, w.Gender)
			if err != nil {
				return IncentiveFigures{}, err
			}
			line.UnitRate = unitRate
			line.WageCap = w.MonthlySalary.Mul(WageCapRate).Floor()
			line.AppliedRate = decimal.Min(line.UnitRate, line.WageCap)

			out.EligibleCount++
			out.IncentiveAmount = out.IncentiveAmount.Add(line.AppliedRate)
		}

		out.Lines = append(out.Lines, line)
	}

	return out, nil
}

// classify runs the fixed-priority state machine. First match wins.
func classify(w WorkerRecord, rank int, baseline int64, monthsWorked int) Classification {
	if int64(rank) <= baseline {
		return WithinBaseline
	}
	if !w.HasEmploymentInsurance {
		return ExcludedNoInsurance
	}
	if !w.MeetsMinimumWage {
		return ExcludedBelowMinWage
	}
	if monthsWorked > SupportPeriodLimit(w.Severity) {
		return ExcludedPeriodExpired
	}
	return Eligible
}
