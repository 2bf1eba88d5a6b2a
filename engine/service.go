/*
service.go - In-process orchestration over the provider boundary

PURPOSE:
  ComplianceService wires the providers around the pure calculators:
  fetch company, policy, roster and headcounts; run the monthly or annual
  engine; hand the finished result to the sink. This is the layer a
  dashboard or report endpoint calls.

HEADCOUNT CARRY-FORWARD:
  When a month has no recorded headcount, the service substitutes the
  most recent known value from an earlier month of the same year. This
  substitution is CALLER policy, which is why it lives here and not in
  the calculators; a year with no recorded headcount at all still fails.

CONCURRENCY:
  Each (company, month) computation is independent. The service holds no
  mutable state, so callers may run computations in parallel across
  companies or months without locking.
*/
package engine

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ComplianceService orchestrates providers, engine and sink.
type ComplianceService struct {
	Companies  CompanyProvider
	Rosters    RosterProvider
	Policies   PolicyProvider
	Headcounts HeadcountProvider
	Sink       ResultSink

	// Variant defaults to WeightingStandard when empty.
	Variant WeightingVariant
}

func (s *ComplianceService) variant() WeightingVariant {
	if s.Variant == "" {
		return WeightingStandard
	}
	return s.Variant
}

// ComputeMonth computes and persists one (company, year, month) result.
func (s *ComplianceService) ComputeMonth(ctx context.Context, companyID CompanyID, year int, month time.Month) (*MonthlyComplianceResult, error) {
	company, err := s.Companies.Company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	policy, err := s.Policies.PolicyFor(ctx, year, company.Category)
	if err != nil {
		return nil, err
	}

	roster, err := s.Rosters.Roster(ctx, companyID)
	if err != nil {
		return nil, err
	}

	headcounts, err := s.resolveHeadcounts(ctx, companyID, year)
	if err != nil {
		return nil, err
	}
	headcount, ok := headcounts[month]
	if !ok {
		return nil, &MissingHeadcountError{Company: companyID, Year: year, Month: month}
	}

	mc := MonthContext{
		Category:       company.Category,
		TotalHeadcount: headcount,
		EvaluationDate: EndOfMonth(year, month),
		Year:           year,
	}

	result, err := MonthlyEngine{Policy: policy, Variant: s.variant()}.Compute(mc, roster)
	if err != nil {
		return nil, err
	}

	if s.Sink != nil {
		if err := s.Sink.SaveMonthlyResult(ctx, companyID, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// ComputeYear computes and persists the annual aggregate, applying the
// linkage reduction on the annual levy total.
func (s *ComplianceService) ComputeYear(ctx context.Context, companyID CompanyID, year int, contractAmount decimal.Decimal) (*AnnualComplianceResult, error) {
	company, err := s.Companies.Company(ctx, companyID)
	if err != nil {
		return nil, err
	}

	policy, err := s.Policies.PolicyFor(ctx, year, company.Category)
	if err != nil {
		return nil, err
	}

	roster, err := s.Rosters.Roster(ctx, companyID)
	if err != nil {
		return nil, err
	}

	headcounts, err := s.resolveHeadcounts(ctx, companyID, year)
	if err != nil {
		return nil, err
	}

	result, err := ComputeAnnual(AnnualInput{
		Year:           year,
		Category:       company.Category,
		Policy:         policy,
		Roster:         roster,
		Headcounts:     headcounts,
		ContractAmount: contractAmount,
		Variant:        s.variant(),
	})
	if err != nil {
		return nil, err
	}

	if s.Sink != nil {
		if err := s.Sink.SaveAnnualResult(ctx, companyID, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// resolveHeadcounts loads the recorded headcounts and carries the most
// recent known value forward into unset later months.
func (s *ComplianceService) resolveHeadcounts(ctx context.Context, companyID CompanyID, year int) (map[time.Month]int, error) {
	recorded, err := s.Headcounts.Headcounts(ctx, companyID, year)
	if err != nil {
		return nil, err
	}

	resolved := make(map[time.Month]int, 12)
	known := 0
	haveKnown := false
	for month := time.January; month <= time.December; month++ {
		if v, ok := recorded[month]; ok {
			known = v
			haveKnown = true
		}
		if haveKnown {
			resolved[month] = known
		}
	}
	return resolved, nil
}
