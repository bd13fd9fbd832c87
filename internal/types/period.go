package types

import (
	"fmt"
	"time"

	ierr "github.com/medroute/medroute/internal/errors"
)

// BillingPeriod is a calendar month selection for billing aggregation.
// The resolved range is inclusive on both ends: day 1 00:00:00.000 UTC through
// the last day of the month 23:59:59.999 UTC. The last day is computed, not
// hard coded, so 28/29/30/31 day months and leap years come out right.
type BillingPeriod struct {
	Year  int `json:"year" form:"year"`
	Month int `json:"month" form:"month"`
}

func NewBillingPeriod(year, month int) (BillingPeriod, error) {
	p := BillingPeriod{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return BillingPeriod{}, err
	}
	return p, nil
}

// Validate rejects malformed selections outright. Never clamp.
func (p BillingPeriod) Validate() error {
	if p.Month < 1 || p.Month > 12 {
		return ierr.NewError("invalid billing month").
			WithHintf("Month must be between 1 and 12, got %d", p.Month).
			Mark(ierr.ErrValidation)
	}
	if p.Year < 2000 || p.Year > 2200 {
		return ierr.NewError("invalid billing year").
			WithHintf("Year %d is outside the supported range", p.Year).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Start returns the first instant of the month in UTC.
func (p BillingPeriod) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last inclusive instant of the month (23:59:59.999 on the
// computed last day) in UTC.
func (p BillingPeriod) End() time.Time {
	return p.NextMonthStart().Add(-time.Millisecond)
}

// NextMonthStart returns the first instant of the following month. Callers use
// it for the fallback half-open comparison `>= Start && < NextMonthStart` when
// the store holds bare YYYY-MM-DD pickup dates that an inclusive end-of-day
// bound can miss.
func (p BillingPeriod) NextMonthStart() time.Time {
	return p.Start().AddDate(0, 1, 0)
}

// Days returns the number of calendar days in the month.
func (p BillingPeriod) Days() int {
	return int(p.NextMonthStart().Sub(p.Start()).Hours() / 24)
}

// Contains reports whether t falls inside the period.
func (p BillingPeriod) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(p.Start()) && t.Before(p.NextMonthStart())
}

// Key returns the stable YYYY-MM identifier used for idempotent invoice
// persistence and deterministic bill numbers.
func (p BillingPeriod) Key() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

func (p BillingPeriod) String() string {
	return p.Key()
}
