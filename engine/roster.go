/*
roster.go - Active roster filtering and validation

PURPOSE:
  The single entry point through which worker records reach the
  calculators. Validation happens ONCE here, so the calculators never
  branch on "is this field present" or "is this value sane".

ORDERING:
  The active subset is ordered by hire date ascending, ties broken by
  worker ID ascending. The order is load-bearing: incentive rank
  assignment is order-sensitive and must be reproducible for auditing.

FAIL-CLOSED:
  One malformed record fails the whole month. Silently dropping a worker
  would move real money.
*/
package engine

import "sort"

// =============================================================================
// VALIDATION - Once, at the boundary
// =============================================================================

// ValidateWorker checks a record for impossible values.
func ValidateWorker(w WorkerRecord) error {
	if w.ID == "" {
		return &WorkerValidationError{WorkerID: w.ID, Field: "id", Reason: "missing"}
	}
	if w.HireDate.IsZero() {
		return &WorkerValidationError{WorkerID: w.ID, Field: "hire_date", Reason: "missing"}
	}
	if w.ResignDate != nil && w.ResignDate.Before(w.HireDate) {
		return &WorkerValidationError{WorkerID: w.ID, Field: "resign_date", Reason: "before hire date"}
	}
	if !w.Severity.Valid() {
		return &WorkerValidationError{WorkerID: w.ID, Field: "severity", Reason: "unknown value"}
	}
	if !w.Gender.Valid() {
		return &WorkerValidationError{WorkerID: w.ID, Field: "gender", Reason: "unknown value"}
	}
	if w.WeeklyHours < 0 {
		return &WorkerValidationError{WorkerID: w.ID, Field: "weekly_hours", Reason: "negative"}
	}
	if !w.MonthlySalary.IsPositive() {
		return &WorkerValidationError{WorkerID: w.ID, Field: "monthly_salary", Reason: "must be positive"}
	}
	return nil
}

// =============================================================================
// ACTIVE ROSTER FILTER
// =============================================================================

// ActiveRoster validates the full roster, then returns the subset employed
// on the evaluation date, ordered by hire date ascending with worker ID as
// the stable tie-break. Pure; the input slice is never mutated.
func ActiveRoster(roster []WorkerRecord, evaluationDate Date) ([]WorkerRecord, error) {
	for _, w := range roster {
		if err := ValidateWorker(w); err != nil {
			return nil, err
		}
	}

	active := make([]WorkerRecord, 0, len(roster))
	for _, w := range roster {
		if w.ActiveOn(evaluationDate) {
			active = append(active, w)
		}
	}

	sort.Slice(active, func(i, j int) bool {
		if !active[i].HireDate.Equal(active[j].HireDate) {
			return active[i].HireDate.Before(active[j].HireDate)
		}
		return active[i].ID < active[j].ID
	})

	return active, nil
}
