/*
policy.go - YearPolicy: the per-year regulatory constants

PURPOSE:
  A YearPolicy bundles every government-mandated constant for one calendar
  year: quota rates per employer category, levy base amounts per size
  tier, incentive unit rates per severity and gender, and the two linkage
  reduction caps.

STRICT LOOKUPS:
  Every lookup a calculation performs must resolve or the whole
  computation fails with a configuration error. There is no silent
  defaulting: an unconfigured rate means "not computed", never "zero".

NO GLOBAL CURRENT POLICY:
  A YearPolicy is a plain value passed into every calculator call.
  Recomputing a prior year is simply a different argument, never a
  process-wide configuration flip.

SEE ALSO:
  - factory/policy.go: Parses YearPolicy definitions from JSON/YAML
  - errors.go: PolicyNotFoundError / PolicyLookupError
*/
package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// YEAR POLICY
// =============================================================================

// YearPolicy is immutable per calendar year. Maps may omit keys; omitted
// keys fail lookups loudly rather than defaulting.
type YearPolicy struct {
	Year int

	// Fraction of total headcount that must be disabled workers,
	// e.g. 0.031 private / 0.038 public.
	QuotaRate map[CompanyCategory]decimal.Decimal

	// Currency per shortfall unit per month, by company size tier.
	LevyBaseAmount map[SizeTier]decimal.Decimal

	// Currency per eligible worker per month.
	IncentiveUnitRate map[Severity]map[Gender]decimal.Decimal

	// Linkage reduction caps, e.g. 0.9 of the levy and 0.5 of the
	// contract amount.
	MaxReductionOfLevy     decimal.Decimal
	MaxReductionOfContract decimal.Decimal
}

// QuotaRateFor resolves the quota rate for an employer category.
func (p *YearPolicy) QuotaRateFor(category CompanyCategory) (decimal.Decimal, error) {
	rate, ok := p.QuotaRate[category]
	if !ok {
		return decimal.Zero, &PolicyLookupError{Year: p.Year, Key: fmt.Sprintf("quota_rate[%s]", category)}
	}
	return rate, nil
}

// LevyBaseFor resolves the levy base amount for a size tier.
func (p *YearPolicy) LevyBaseFor(tier SizeTier) (decimal.Decimal, error) {
	base, ok := p.LevyBaseAmount[tier]
	if !ok {
		return decimal.Zero, &PolicyLookupError{Year: p.Year, Key: fmt.Sprintf("levy_base_amount[%s]", tier)}
	}
	return base, nil
}

// UnitRateFor resolves the incentive unit rate for a severity and gender.
func (p *YearPolicy) UnitRateFor(severity Severity, gender Gender) (decimal.Decimal, error) {
	byGender, ok := p.IncentiveUnitRate[severity]
	if !ok {
		return decimal.Zero, &PolicyLookupError{Year: p.Year, Key: fmt.Sprintf("incentive_unit_rate[%s]", severity)}
	}
	rate, ok := byGender[gender]
	if !ok {
		return decimal.Zero, &PolicyLookupError{Year: p.Year, Key: fmt.Sprintf("incentive_unit_rate[%s][%s]", severity, gender)}
	}
	return rate, nil
}
