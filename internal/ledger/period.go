// Package ledger implements the aggregation core: pure functions that join
// transactions, categories and budgets into the summaries the presentation
// layer renders. Nothing here holds state between calls and inputs are never
// mutated; every function is a plain computation over already-fetched rows.
package ledger

import (
	"time"

	"calico/internal/core"
)

// Period is a calendar-month date range, first to last day inclusive, used to
// scope aggregation queries.
type Period struct {
	Start time.Time
	End   time.Time
}

// MonthOf derives the Period covering the calendar month of ref.
func MonthOf(ref time.Time) Period {
	y, m, _ := ref.UTC().Date()
	start := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
	// Day zero of the next month is the last day of this one.
	end := time.Date(y, m+1, 0, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	return Period{Start: start, End: end}
}

// Month builds the Period for an explicit year and month.
func Month(year, month int) Period {
	return MonthOf(time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC))
}

// Validate reports ErrInvalidPeriod for zero or inverted ranges. Callers are
// expected to treat an invalid period as "no rows match", not as a failure.
func (p Period) Validate() error {
	if p.Start.IsZero() || p.End.IsZero() || p.End.Before(p.Start) {
		return core.ErrInvalidPeriod
	}
	return nil
}

// Contains reports whether t falls inside the period, bounds inclusive.
func (p Period) Contains(t time.Time) bool {
	if p.Validate() != nil {
		return false
	}
	return !t.Before(p.Start) && !t.After(p.End)
}

// Key renders the period's month as "YYYY-MM".
func (p Period) Key() string {
	return p.Start.UTC().Format("2006-01")
}

// MonthKey renders t's month as "YYYY-MM".
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// DayKey renders t's calendar date as "YYYY-MM-DD".
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
