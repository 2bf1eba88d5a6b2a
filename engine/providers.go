/*
providers.go - The engine's boundary contract

PURPOSE:
  Defines the interfaces between the pure calculators and the
  surrounding application. The engine consumes rosters, policies and
  headcounts through providers and emits results through a sink; it
  never reads a database or writes one directly.

IMPLEMENTATIONS:
  - store/sqlite: Production persistence
  - engine/store:  In-memory, for tests and demos

SEE ALSO:
  - service.go: ComplianceService, the in-process orchestrator
*/
package engine

import (
	"context"
	"time"
)

// CompanyProvider resolves company identity and category.
type CompanyProvider interface {
	// Company returns the employer record, or ErrCompanyNotFound.
	Company(ctx context.Context, id CompanyID) (Company, error)
}

// RosterProvider returns the full disabled-worker roster for a company.
// The engine never mutates or persists the returned slice.
type RosterProvider interface {
	Roster(ctx context.Context, company CompanyID) ([]WorkerRecord, error)
}

// PolicyProvider resolves (year, category) to a YearPolicy. Absence is a
// configuration error (ErrPolicyNotFound), never a zero-value default.
type PolicyProvider interface {
	PolicyFor(ctx context.Context, year int, category CompanyCategory) (*YearPolicy, error)
}

// HeadcountProvider supplies the months with a known company-wide
// headcount for a year. Months may be missing; substituting a value for
// an unset month is caller policy, not an engine rule.
type HeadcountProvider interface {
	Headcounts(ctx context.Context, company CompanyID, year int) (map[time.Month]int, error)
}

// ResultSink receives finished results for persistence and display. All
// figures are final when they reach the sink; no layer past it computes.
type ResultSink interface {
	SaveMonthlyResult(ctx context.Context, company CompanyID, result *MonthlyComplianceResult) error
	SaveAnnualResult(ctx context.Context, company CompanyID, result *AnnualComplianceResult) error
}
