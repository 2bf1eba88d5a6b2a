/*
annual.go - Twelve-month aggregation and the annual linkage reduction

PURPOSE:
  Drives the monthly engine over months 1-12, folds the results into
  yearly totals, then applies the linkage reduction ONCE on the annual
  levy aggregate. Annual levy is the SUM of twelve monthly levies, not a
  single x12 multiplication: headcount and shortfall vary by month.

FAIL-CLOSED:
  The aggregator does not retry or skip months. Any monthly failure -
  including a month with no known headcount - fails the whole annual
  computation. Substituting the most recent known headcount for an unset
  month is a caller policy (see ComplianceService), never a rule here.
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnnualInput is everything one annual computation needs, passed by
// value. Headcounts must cover all twelve months.
type AnnualInput struct {
	Year     int
	Category CompanyCategory
	Policy   *YearPolicy
	Roster   []WorkerRecord

	// Company-wide headcount per month. A missing month fails the run.
	Headcounts map[time.Month]int

	// Total value of qualifying linkage contracts for the year.
	ContractAmount decimal.Decimal

	Variant WeightingVariant
}

// ComputeAnnual runs the monthly engine for January through December and
// aggregates. The evaluation date of each month is its last day.
func ComputeAnnual(in AnnualInput) (*AnnualComplianceResult, error) {
	monthly := MonthlyEngine{Policy: in.Policy, Variant: in.Variant}

	out := &AnnualComplianceResult{
		Year:           in.Year,
		Category:       in.Category,
		Months:         make([]MonthlyComplianceResult, 0, 12),
		TotalLevy:      decimal.Zero,
		TotalIncentive: decimal.Zero,
		ContractAmount: in.ContractAmount,
	}

	for month := time.January; month <= time.December; month++ {
		headcount, ok := in.Headcounts[month]
		if !ok {
			return nil, &MissingHeadcountError{Year: in.Year, Month: month}
		}

		mc := MonthContext{
			Category:       in.Category,
			TotalHeadcount: headcount,
			EvaluationDate: EndOfMonth(in.Year, month),
			Year:           in.Year,
		}

		result, err := monthly.Compute(mc, in.Roster)
		if err != nil {
			return nil, err
		}

		out.Months = append(out.Months, *result)
		out.TotalLevy = out.TotalLevy.Add(result.LevyAmount)
		out.TotalIncentive = out.TotalIncentive.Add(result.IncentiveAmount)
	}

	out.Reduction = LinkageReduction(out.TotalLevy, in.ContractAmount, in.Policy)
	out.NetLevy = out.TotalLevy.Sub(out.Reduction)
	return out, nil
}
