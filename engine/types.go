/*
Package engine implements the compliance calculation engine for a national
disability-employment quota scheme.

PURPOSE:
  Given a roster of disabled-worker records and a month's company-wide
  headcount, the engine computes the figures that drive money changing
  hands: the obligated headcount, the weighted recognized headcount, the
  shortfall levy, the eligible incentive payment, and the levy reduction
  earned through linkage contracts with certified workshops.

KEY CONCEPTS IN THIS FILE (types.go):
  - WorkerRecord: One disabled employee as seen by the engine (read-only)
  - MonthContext: The (category, headcount, evaluation date) of one month
  - EmployeeIncentiveLine: Per-worker incentive detail for audit/reports
  - MonthlyComplianceResult / AnnualComplianceResult: Immutable outputs

DESIGN PRINCIPLES:
  1. Purity: Every calculator is a pure function over immutable inputs.
     No I/O, no clock reads, no randomness inside the engine.
  2. Precision: Uses decimal.Decimal for rates and currency. A one-unit
     rounding error here changes real payments.
  3. Integer currency: All currency figures are whole units. Fractional
     intermediate values (wage caps, reductions) floor to whole units.
  4. Fail-closed: A result is either complete and correct or not produced
     at all. Partial figures are worse than none for regulatory output.

TWO ROUNDINGS, ONE RATE:
  The same quota rate produces TWO distinct counts per month:
    ObligatedHeadcount = floor(totalHeadcount x quotaRate)  (levy side)
    BaselineCount      = ceil(totalHeadcount x quotaRate)   (incentive side)
  They must never be unified into one value.

SEE ALSO:
  - policy.go: YearPolicy and its strict lookups
  - roster.go: Active roster filtering and validation
  - levy.go, incentive.go, linkage.go: The calculators
  - monthly.go, annual.go: Orchestration
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type CompanyID string
type WorkerID string

// =============================================================================
// ENUMERATIONS
// =============================================================================

// Severity is the disability classification. It drives both the levy
// weighting and the incentive unit rate.
type Severity string

const (
	SeveritySevere Severity = "severe"
	SeverityMild   Severity = "mild"
)

// Valid reports whether the severity is one of the known values.
func (s Severity) Valid() bool { return s == SeveritySevere || s == SeverityMild }

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool { return g == GenderMale || g == GenderFemale }

// CompanyCategory selects which quota rate applies to an employer.
type CompanyCategory string

const (
	CategoryPrivate CompanyCategory = "private"
	CategoryPublic  CompanyCategory = "public"
)

func (c CompanyCategory) Valid() bool { return c == CategoryPrivate || c == CategoryPublic }

// SizeTier selects the levy base amount. Tier boundary is 100 total heads.
type SizeTier string

const (
	TierHundredPlus  SizeTier = "100_plus"
	TierUnderHundred SizeTier = "under_100"
)

// TierFor returns the size tier for a company-wide headcount.
func TierFor(totalHeadcount int) SizeTier {
	if totalHeadcount >= 100 {
		return TierHundredPlus
	}
	return TierUnderHundred
}

// =============================================================================
// COMPANY - Employer organization under the quota scheme
// =============================================================================

type Company struct {
	ID       CompanyID
	Name     string
	Category CompanyCategory
}

// =============================================================================
// WORKER RECORD - One disabled employee, read-only to the engine
// =============================================================================

// WorkerRecord is one disabled employee as provided by the roster
// collaborator. The engine never mutates or persists these; a record is
// immutable for the duration of one computation.
type WorkerRecord struct {
	ID       WorkerID
	Name     string
	Severity Severity
	Gender   Gender

	HireDate   Date
	ResignDate *Date // nil while still employed

	WeeklyHours   int             // contracted hours per week
	MonthlySalary decimal.Decimal // whole currency units, > 0

	HasEmploymentInsurance bool
	MeetsMinimumWage       bool
}

// ActiveOn reports whether the worker was employed on the given date:
// hired on or before it, and resign date (if any) strictly after it.
func (w WorkerRecord) ActiveOn(d Date) bool {
	if w.HireDate.After(d) {
		return false
	}
	if w.ResignDate != nil && !w.ResignDate.After(d) {
		return false
	}
	return true
}

// MonthlyHours converts the weekly contracted hours to a monthly figure
// using the average weeks-per-month factor.
func (w WorkerRecord) MonthlyHours() decimal.Decimal {
	return decimal.NewFromInt(int64(w.WeeklyHours)).Mul(AverageWeeksPerMonth)
}

// =============================================================================
// MONTH CONTEXT - One (company, month) evaluation frame
// =============================================================================

// MonthContext carries everything about the month being evaluated that is
// not a worker record: the employer category, the company-wide headcount
// (all workers, not just disabled), and the evaluation date, which is
// always the last day of the month.
type MonthContext struct {
	Category       CompanyCategory
	TotalHeadcount int
	EvaluationDate Date
	Year           int
}

// Month returns the calendar month of the evaluation date.
func (mc MonthContext) Month() time.Month { return mc.EvaluationDate.Month() }

// =============================================================================
// DERIVED RESULTS - Immutable once produced
// =============================================================================

// EmployeeIncentiveLine is one worker's incentive detail. Lines exist for
// every active worker so audits can see why each one was or was not paid.
type EmployeeIncentiveLine struct {
	WorkerID       WorkerID
	Rank           int
	Classification Classification
	MonthsWorked   int

	// Zero for non-eligible classifications.
	UnitRate    decimal.Decimal
	WageCap     decimal.Decimal
	AppliedRate decimal.Decimal
}

// MonthlyComplianceResult is the complete output for one (company, month).
// Zero shortfall, zero eligible count and zero reduction are ordinary
// values here, never error states.
type MonthlyComplianceResult struct {
	Year  int
	Month time.Month

	TotalHeadcount    int
	DisabledHeadcount int

	// Levy side (floor rounding).
	ObligatedHeadcount  int64
	RecognizedHeadcount decimal.Decimal
	Shortfall           decimal.Decimal
	LevyBaseAmount      decimal.Decimal
	LevyAmount          decimal.Decimal

	// Incentive side (ceil rounding, same rate).
	BaselineCount   int64
	EligibleCount   int
	ExcludedCount   int
	IncentiveAmount decimal.Decimal

	Lines []EmployeeIncentiveLine
}

// AnnualComplianceResult folds twelve monthly results into yearly totals
// and applies the linkage reduction once on the aggregate.
type AnnualComplianceResult struct {
	Year     int
	Category CompanyCategory

	Months []MonthlyComplianceResult // always 12, January..December

	TotalLevy      decimal.Decimal
	TotalIncentive decimal.Decimal

	ContractAmount decimal.Decimal
	Reduction      decimal.Decimal

	// NetLevy = TotalLevy - Reduction. Derived here so report layers
	// never recompute it.
	NetLevy decimal.Decimal
}
