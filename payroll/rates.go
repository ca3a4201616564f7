/*
rates.go - Daily-rate derivation and leave valuation

PURPOSE:
  Salaried ("global") employees are paid a monthly rate divided into a
  daily rate by the number of configured working days that fall in the
  calendar month. A Sunday-Thursday employee has 21 working days in
  February 2024; their daily rate that month is monthly/21.

  Leave rows are valued from a per-day base (the daily rate, or an
  external selector for hourly employees) times the fractional-day
  multiplier.
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tutorpay/payroll-engine/leave"
)

// =============================================================================
// WORKING DAYS
// =============================================================================

// EffectiveWorkingDays counts the days in the calendar month of date
// whose weekday is in the employee's working-day set.
func EffectiveWorkingDays(emp Employee, date time.Time) int {
	year, month := date.Year(), date.Month()
	first := Date(year, month, 1)
	last := first.AddDate(0, 1, -1)

	count := 0
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		if emp.WorkingDays[day.Weekday()] {
			count++
		}
	}
	return count
}

// GlobalDailyRate derives the flat per-day rate for a salaried employee.
//
// An employee with zero working days in the month is a configuration
// error, not a value to default: the error must surface and block.
func GlobalDailyRate(emp Employee, date time.Time, monthlyRate decimal.Decimal) (decimal.Decimal, error) {
	days := EffectiveWorkingDays(emp, date)
	if days == 0 {
		return decimal.Decimal{}, &NoWorkingDaysError{
			EmployeeID: emp.ID,
			Year:       date.Year(),
			Month:      date.Month(),
		}
	}
	return monthlyRate.Div(decimal.NewFromInt(int64(days))), nil
}

// =============================================================================
// LEAVE SESSION VALUE
// =============================================================================

// LeaveSessionValue is the payable value of one leave row.
type LeaveSessionValue struct {
	Amount       decimal.Decimal
	Multiplier   decimal.Decimal
	PreStartDate bool
}

// ResolveLeaveSessionValue values a leave row for aggregation.
//
// Non-payable and non-leave rows short-circuit to zero without calling
// the selector. Rows dated before the employee's start date are void
// and flagged; backdated leave must not retroactively pay. Otherwise
// the selector's per-day base (when positive) times the multiplier
// wins, falling back to the row's stored TotalPayment times the
// multiplier (the stored amount is always the full-day rate; the
// fraction is applied here, in aggregation).
func ResolveLeaveSessionValue(entry TimeEntry, selector LeaveDayValueSelector, emp Employee, caps Capabilities) LeaveSessionValue {
	zero := LeaveSessionValue{Amount: decimal.Zero, Multiplier: decimal.Zero}

	if !entry.Payable || !entry.IsLeave() {
		return zero
	}
	kind, ok := entry.LeaveKindOf(caps)
	if !ok || !kind.Payable() {
		return zero
	}
	if !emp.Started(entry.Date) {
		return LeaveSessionValue{Amount: decimal.Zero, Multiplier: decimal.Zero, PreStartDate: true}
	}

	multiplier := leave.ValueMultiplier(entry.LeaveFields(caps))

	if selector != nil {
		if base, ok := selector(entry.EmployeeID, entry.Date); ok && base.IsPositive() {
			return LeaveSessionValue{Amount: base.Mul(multiplier), Multiplier: multiplier}
		}
	}
	return LeaveSessionValue{Amount: entry.TotalPayment.Mul(multiplier), Multiplier: multiplier}
}
