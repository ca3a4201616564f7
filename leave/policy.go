/*
policy.go - Organization-wide leave configuration

PURPOSE:
  Defines the two organization-scoped policy singletons consulted by the
  balance engine and the payroll aggregators:

  Policy:    balance rules (half days, negative floor, capped carryover)
             plus the holiday rule table.
  PayPolicy: how a day of leave is valued in currency for employees that
             have no derived daily rate (hourly, instructor).

HOLIDAY MATCHING:
  Rules are scanned linearly in configuration order and the first match
  wins; rules are not guaranteed non-overlapping, so scan order is part
  of the contract. Yearly-recurring rules compare only month and day,
  which lets a rule span a year boundary (e.g. Dec 29 .. Jan 2).
*/
package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEAVE POLICY
// =============================================================================

type Policy struct {
	AllowHalfDay         bool
	AllowNegativeBalance bool
	NegativeFloorDays    decimal.Decimal
	CarryoverEnabled     bool
	CarryoverMaxDays     decimal.Decimal
	HolidayRules         []HolidayRule
}

// HolidayRule marks a date range as an organization holiday.
type HolidayRule struct {
	ID         string
	Name       string
	Type       string
	StartDate  time.Time
	EndDate    time.Time
	Recurrence string // RecurrenceYearly or empty
	HalfDay    bool
}

const RecurrenceYearly = "yearly"

// FindHolidayForDate returns the first rule matching the date, or nil.
func FindHolidayForDate(policy Policy, date time.Time) *HolidayRule {
	for i := range policy.HolidayRules {
		rule := &policy.HolidayRules[i]
		if rule.matches(date) {
			return rule
		}
	}
	return nil
}

func (r *HolidayRule) matches(date time.Time) bool {
	if r.Recurrence == RecurrenceYearly {
		return r.matchesMonthDay(date)
	}
	day := dayOf(date)
	return !day.Before(dayOf(r.StartDate)) && !day.After(dayOf(r.EndDate))
}

// matchesMonthDay compares only month/day, supporting ranges that wrap
// the year boundary.
func (r *HolidayRule) matchesMonthDay(date time.Time) bool {
	md := monthDay(date)
	start := monthDay(r.StartDate)
	end := monthDay(r.EndDate)
	if start <= end {
		return md >= start && md <= end
	}
	return md >= start || md <= end
}

// monthDay encodes month and day as MMDD for ordering.
func monthDay(t time.Time) int {
	return int(t.Month())*100 + t.Day()
}

// =============================================================================
// LEAVE PAY POLICY
// =============================================================================

// Valuation methods for a day of leave.
const (
	PayMethodLegalLookback = "legal_lookback" // average over the legal lookback window
	PayMethodAvgHourly     = "avg_hourly"     // avg hourly rate x avg daily hours
	PayMethodFixedRate     = "fixed_rate"     // organization-configured flat rate
)

// PayPolicy governs how a day of leave is valued in currency for
// employees without a monthly salary.
type PayPolicy struct {
	DefaultMethod         string
	LookbackMonths        int
	LegalAllow12mIfBetter bool
	FixedRateDefault      decimal.Decimal
	LegalInfoURL          string
}

// DefaultPayPolicy mirrors the legal default: three month lookback with
// the twelve month average allowed when it favors the employee.
func DefaultPayPolicy() PayPolicy {
	return PayPolicy{
		DefaultMethod:         PayMethodLegalLookback,
		LookbackMonths:        3,
		LegalAllow12mIfBetter: true,
	}
}
