/*
linkage.go - Levy reduction through linkage contracts

PURPOSE:
  An employer can reduce its levy by placing qualifying contracts with
  certified workshops. The reduction is bound by two independent caps:
  a fraction of the levy itself and a fraction of the contract value.
  The smaller cap always wins; neither alone determines the result.

  Typically applied once, on the ANNUAL aggregate levy.

NOT ERRORS:
  A zero contract amount yields a zero reduction. So does a zero levy.
*/
package engine

import "github.com/shopspring/decimal"

// LinkageReduction computes the levy reduction for a levy amount and the
// total value of qualifying linkage contracts over the same period.
// Both caps floor to whole currency units before comparison, so the
// reduction is always integer currency.
func LinkageReduction(levyAmount, contractAmount decimal.Decimal, policy *YearPolicy) decimal.Decimal {
	levyCap := levyAmount.Mul(policy.MaxReductionOfLevy).Floor()
	contractCap := contractAmount.Mul(policy.MaxReductionOfContract).Floor()
	reduction := decimal.Min(levyCap, contractCap)
	if reduction.IsNegative() {
		return decimal.Zero
	}
	return reduction
}
