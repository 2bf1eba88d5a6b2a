package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// DATE - Day-granularity time abstraction
// =============================================================================
// All engine dates are whole days in UTC. Evaluation always happens on the
// last day of a month; hire and resign dates carry no time-of-day meaning.

type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateFromTime truncates a time.Time to its UTC calendar day.
func DateFromTime(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }
func (d Date) IsZero() bool      { return d.Time.IsZero() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// =============================================================================
// MONTH BOUNDARIES
// =============================================================================

// EndOfMonth returns the last day of the given month. This is the
// evaluation date for every monthly computation.
func EndOfMonth(year int, month time.Month) Date {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Date{Time: t}
}

func StartOfMonth(year int, month time.Month) Date { return NewDate(year, month, 1) }

// =============================================================================
// ELAPSED MONTHS - The support-period clock
// =============================================================================

// WholeMonthsBetween returns the number of WHOLE calendar months elapsed
// from one date to another. Fractional months truncate, never round up:
// hired Jan 15, evaluated Feb 14 -> 0 months; evaluated Feb 15 -> 1 month.
//
// The support-period exclusion compares this against the severity limit
// with a strict >, so an off-by-one here silently flips eligibility at
// the boundary. Exercised explicitly in tests.
func WholeMonthsBetween(from, to Date) int {
	if to.Before(from) {
		return 0
	}
	months := (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
	if to.Day() < from.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// =============================================================================
// CALENDAR CONSTANTS
// =============================================================================

// AverageWeeksPerMonth converts weekly contracted hours to monthly hours
// for the levy weighting threshold (365 / 7 / 12, to three decimals).
var AverageWeeksPerMonth = decimal.RequireFromString("4.345")
