/*
errors.go - Centralized error types for the compliance engine

PURPOSE:
  All engine error types in one place. Callers translate these into
  user-visible messages; the engine itself never retries and never
  produces partial output.

ERROR CATEGORIES:
  1. Configuration errors - no YearPolicy (or policy entry) resolvable
     for a requested key. Fatal to the whole computation, never defaulted.
  2. Validation errors - a WorkerRecord with an impossible value. The
     engine fails the entire month rather than silently dropping the
     worker: levy and incentive figures are regulatory outputs that must
     be either complete and correct or not computed at all.
  3. Data errors - a month's company-wide headcount is unknown.

NOT ERRORS:
  Zero shortfall, zero eligible count and zero reduction are valid
  business outcomes, represented as ordinary zero values.

USAGE:
  if engine.IsConfigurationError(err) {
      // "policy for year 2027 not configured" - fix upstream, re-run
  }

SEE ALSO:
  - policy.go: Produces configuration errors on failed lookups
  - roster.go: Produces validation errors at the roster boundary
*/
package engine

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrPolicyNotFound is returned when no YearPolicy exists for a
	// requested (year, category).
	ErrPolicyNotFound = errors.New("year policy not found")

	// ErrPolicyLookup is returned when a YearPolicy exists but lacks an
	// entry the calculation needs (rate, base amount, unit rate).
	ErrPolicyLookup = errors.New("year policy lookup failed")

	// ErrInvalidWorker is returned when a roster record has an
	// impossible value.
	ErrInvalidWorker = errors.New("invalid worker record")

	// ErrMissingHeadcount is returned when no company-wide headcount is
	// known for a month that must be computed.
	ErrMissingHeadcount = errors.New("monthly headcount not available")

	// ErrCompanyNotFound is returned by providers when the referenced
	// company does not exist.
	ErrCompanyNotFound = errors.New("company not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// PolicyNotFoundError identifies the missing (year, category) pair.
type PolicyNotFoundError struct {
	Year     int
	Category CompanyCategory
}

func (e *PolicyNotFoundError) Error() string {
	return fmt.Sprintf("no year policy configured for year %d category %q", e.Year, e.Category)
}

func (e *PolicyNotFoundError) Unwrap() error { return ErrPolicyNotFound }

// PolicyLookupError identifies the missing entry inside a YearPolicy.
type PolicyLookupError struct {
	Year int
	Key  string // e.g. "quota_rate[private]", "incentive_unit_rate[severe][female]"
}

func (e *PolicyLookupError) Error() string {
	return fmt.Sprintf("year policy %d has no entry for %s", e.Year, e.Key)
}

func (e *PolicyLookupError) Unwrap() error { return ErrPolicyLookup }

// WorkerValidationError identifies the offending record and field.
type WorkerValidationError struct {
	WorkerID WorkerID
	Field    string
	Reason   string
}

func (e *WorkerValidationError) Error() string {
	return fmt.Sprintf("worker %s: %s: %s", e.WorkerID, e.Field, e.Reason)
}

func (e *WorkerValidationError) Unwrap() error { return ErrInvalidWorker }

// MissingHeadcountError identifies the month with no known headcount.
type MissingHeadcountError struct {
	Company CompanyID
	Year    int
	Month   time.Month
}

func (e *MissingHeadcountError) Error() string {
	return fmt.Sprintf("no total headcount known for company %s in %d-%02d", e.Company, e.Year, int(e.Month))
}

func (e *MissingHeadcountError) Unwrap() error { return ErrMissingHeadcount }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsConfigurationError reports whether the failure is a missing or
// incomplete YearPolicy. Fixed by configuring the policy, then re-running.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrPolicyNotFound) || errors.Is(err, ErrPolicyLookup)
}

// IsValidationError reports whether the failure is bad roster or month
// data. Fixed by correcting the upstream records, then re-running.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidWorker) || errors.Is(err, ErrMissingHeadcount)
}

// IsNotFound reports whether the error indicates a missing entity.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCompanyNotFound) || errors.Is(err, ErrPolicyNotFound)
}
