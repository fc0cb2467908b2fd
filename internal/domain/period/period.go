// Package period models calendar months as reporting periods.
package period

import (
	"fmt"
	"time"

	"stockbook/internal/core/apperror"
)

// Period identifies a calendar month.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Of returns the period containing t (in UTC).
func Of(t time.Time) Period {
	u := t.UTC()
	return Period{Year: u.Year(), Month: int(u.Month())}
}

// Validate checks that the period is a plausible calendar month.
func (p Period) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return apperror.NewValidation(fmt.Sprintf("month must be between 1 and 12, got %d", p.Month))
	}
	if p.Year < 1970 || p.Year > 9999 {
		return apperror.NewValidation(fmt.Sprintf("year out of range: %d", p.Year))
	}
	return nil
}

// Start returns the first instant of the month in UTC.
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the first instant of the following month in UTC.
// The period covers [Start, End).
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Prev returns the previous calendar month.
func (p Period) Prev() Period {
	return Of(p.Start().AddDate(0, -1, 0))
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	return Of(p.End())
}

// Contains reports whether t falls within the period.
func (p Period) Contains(t time.Time) bool {
	u := t.UTC()
	return !u.Before(p.Start()) && u.Before(p.End())
}

// Before reports whether p precedes other.
func (p Period) Before(other Period) bool {
	if p.Year != other.Year {
		return p.Year < other.Year
	}
	return p.Month < other.Month
}

// String formats the period as "2025-07".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}
