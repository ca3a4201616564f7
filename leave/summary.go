/*
summary.go - Multi-year leave balance computation

PURPOSE:
  Answers "how many leave days does this employee have left?" at any
  date. The computation walks calendar years from the employee's start
  year to the target year:

    1. Base quota: annual allowance, prorated by remaining days in the
       start year (leap-year aware), full for later years.
    2. Ledger fold: usage (negative deltas), allocations (positive
       deltas), and the net delta within the year window. The final
       year's window is capped at the query date.
    3. Balance = quota + carry-in + net delta.
    4. Carryover: the year-end balance carried into the next year,
       clamped to [0, CarryoverMaxDays] when carryover is enabled and
       reset to zero otherwise. Negative balances never carry forward.

  All returned figures are rounded to 3 decimal places.

PROJECTION:
  ProjectAfterChange previews a hypothetical ledger delta ("what if this
  request is approved") without mutating anything, and checks the result
  against the negative-balance policy.
*/
package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// EMPLOYEE TERMS - The slice of the employee record the engine reads
// =============================================================================

// EmployeeTerms carries the employee fields leave accounting depends on.
// StartDate nil means "unknown": the walk starts at the earliest ledger
// year and no proration applies.
type EmployeeTerms struct {
	StartDate  *time.Time
	AnnualDays decimal.Decimal
}

// =============================================================================
// SUMMARY - Snapshot of one policy year
// =============================================================================

// Summary is the computed leave state for the target year.
type Summary struct {
	Year        int
	Quota       decimal.Decimal // base quota for the year (prorated in the start year)
	CarryIn     decimal.Decimal // days carried into the year
	Used        decimal.Decimal // absolute sum of negative ledger deltas
	Allocations decimal.Decimal // sum of positive ledger deltas
	Adjustments decimal.Decimal // net ledger delta
	Remaining   decimal.Decimal // quota + carry-in + net delta
}

// ComputeEmployeeSummary computes the leave snapshot for the year of asOf.
//
// Ledger entries dated before the employee's start date are void and
// ignored. A start date after the target year yields an all-zero summary.
func ComputeEmployeeSummary(terms EmployeeTerms, ledger []LedgerEntry, policy Policy, asOf time.Time) Summary {
	asOf = dayOf(asOf)
	targetYear := asOf.Year()

	startYear := walkStartYear(terms, ledger, targetYear)
	if startYear > targetYear {
		return zeroSummary(targetYear)
	}

	carry := decimal.Zero
	summary := zeroSummary(targetYear)

	for year := startYear; year <= targetYear; year++ {
		quota := yearQuota(terms, year)

		windowEnd := endOfYear(year)
		if year == targetYear {
			windowEnd = asOf
		}
		used, allocations, net := foldLedgerYear(terms, ledger, year, windowEnd)

		balance := quota.Add(carry).Add(net)

		if year < targetYear {
			carry = carryForward(policy, balance)
			continue
		}

		summary = Summary{
			Year:        year,
			Quota:       quota.Round(3),
			CarryIn:     carry.Round(3),
			Used:        used.Round(3),
			Allocations: allocations.Round(3),
			Adjustments: net.Round(3),
			Remaining:   balance.Round(3),
		}
	}

	return summary
}

// walkStartYear decides the first year of the carryover walk.
func walkStartYear(terms EmployeeTerms, ledger []LedgerEntry, targetYear int) int {
	if terms.StartDate != nil {
		return terms.StartDate.Year()
	}
	first := targetYear
	for _, e := range ledger {
		if y := e.Date.Year(); y < first {
			first = y
		}
	}
	return first
}

// yearQuota computes the base quota for one year: zero before the start
// year, prorated within it, full afterwards.
func yearQuota(terms EmployeeTerms, year int) decimal.Decimal {
	if terms.StartDate == nil {
		return terms.AnnualDays
	}
	start := dayOf(*terms.StartDate)
	switch {
	case year < start.Year():
		return decimal.Zero
	case year > start.Year():
		return terms.AnnualDays
	default:
		remaining := decimal.NewFromInt(int64(daysThroughYearEnd(start)))
		total := decimal.NewFromInt(int64(daysInYear(year)))
		return terms.AnnualDays.Mul(remaining).Div(total)
	}
}

// foldLedgerYear sums the ledger within [Jan 1, windowEnd] of the year.
func foldLedgerYear(terms EmployeeTerms, ledger []LedgerEntry, year int, windowEnd time.Time) (used, allocations, net decimal.Decimal) {
	used, allocations, net = decimal.Zero, decimal.Zero, decimal.Zero
	yearStart := startOfYear(year)

	for _, e := range ledger {
		day := dayOf(e.Date)
		if day.Before(yearStart) || day.After(windowEnd) {
			continue
		}
		if terms.StartDate != nil && day.Before(dayOf(*terms.StartDate)) {
			continue
		}
		net = net.Add(e.DeltaDays)
		if e.DeltaDays.IsNegative() {
			used = used.Add(e.DeltaDays.Neg())
		} else {
			allocations = allocations.Add(e.DeltaDays)
		}
	}
	return used, allocations, net
}

// carryForward clamps a year-end balance into the next year.
// Negative balances never carry; the cap only applies when carryover is on.
func carryForward(policy Policy, balance decimal.Decimal) decimal.Decimal {
	if !policy.CarryoverEnabled {
		return decimal.Zero
	}
	if balance.IsNegative() {
		return decimal.Zero
	}
	if balance.GreaterThan(policy.CarryoverMaxDays) {
		return policy.CarryoverMaxDays
	}
	return balance
}

func zeroSummary(year int) Summary {
	return Summary{
		Year:        year,
		Quota:       decimal.Zero,
		CarryIn:     decimal.Zero,
		Used:        decimal.Zero,
		Allocations: decimal.Zero,
		Adjustments: decimal.Zero,
		Remaining:   decimal.Zero,
	}
}

// =============================================================================
// PROJECTION - Preview a hypothetical ledger change
// =============================================================================

// Projection is the result of previewing a ledger delta.
type Projection struct {
	Summary            Summary
	ProjectedRemaining decimal.Decimal
	Allowed            bool // false when the projection breaks the negative-balance policy
}

// ProjectAfterChange computes the current summary and applies a
// hypothetical delta on top, without touching the ledger.
func ProjectAfterChange(terms EmployeeTerms, ledger []LedgerEntry, policy Policy, asOf time.Time, deltaDays decimal.Decimal) Projection {
	summary := ComputeEmployeeSummary(terms, ledger, policy, asOf)
	projected := summary.Remaining.Add(deltaDays).Round(3)

	allowed := true
	if projected.IsNegative() {
		if !policy.AllowNegativeBalance {
			allowed = false
		} else if policy.NegativeFloorDays.IsPositive() && projected.Neg().GreaterThan(policy.NegativeFloorDays) {
			allowed = false
		}
	}

	return Projection{
		Summary:            summary,
		ProjectedRemaining: projected,
		Allowed:            allowed,
	}
}
