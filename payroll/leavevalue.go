/*
leavevalue.go - Valuing a day of leave for non-salaried employees

PURPOSE:
  A salaried employee's leave day is simply their daily rate. Hourly and
  instructor employees have no daily rate, so the organization's leave
  pay policy decides the value:

    legal_lookback: average daily pay over the lookback window, with the
                    12-month average allowed when it favors the employee
    avg_hourly:     average hourly rate x average hours per worked day
    fixed_rate:     organization-configured flat amount

  NewLeaveDayValuer folds a history snapshot into a selector that
  ComputePeriodTotals consumes. Days with no usable history yield
  ok=false and callers fall back to stored row amounts.
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tutorpay/payroll-engine/leave"
)

// NewLeaveDayValuer builds a LeaveDayValueSelector from a work-history
// snapshot and the organization's leave pay policy.
func NewLeaveDayValuer(history []TimeEntry, policy leave.PayPolicy) LeaveDayValueSelector {
	return func(employeeID EmployeeID, date time.Time) (decimal.Decimal, bool) {
		switch policy.DefaultMethod {
		case leave.PayMethodFixedRate:
			if policy.FixedRateDefault.IsPositive() {
				return policy.FixedRateDefault, true
			}
			return decimal.Decimal{}, false

		case leave.PayMethodAvgHourly:
			return avgHourlyValue(history, employeeID, date, policy.LookbackMonths)

		default: // legal_lookback
			months := policy.LookbackMonths
			if months <= 0 {
				months = 3
			}
			value, ok := avgDailyPay(history, employeeID, date, months)
			if policy.LegalAllow12mIfBetter {
				if alt, altOK := avgDailyPay(history, employeeID, date, 12); altOK && (!ok || alt.GreaterThan(value)) {
					return alt, true
				}
			}
			return value, ok
		}
	}
}

// avgDailyPay averages payable work pay per distinct worked day in the
// lookback window ending the day before date.
func avgDailyPay(history []TimeEntry, employeeID EmployeeID, date time.Time, months int) (decimal.Decimal, bool) {
	total := decimal.Zero
	days := map[string]bool{}

	for _, entry := range history {
		if !inLookback(entry, employeeID, date, months) {
			continue
		}
		total = total.Add(entry.TotalPayment)
		days[DayKey(employeeID, entry.Date)] = true
	}
	if len(days) == 0 {
		return decimal.Decimal{}, false
	}
	return total.Div(decimal.NewFromInt(int64(len(days)))), true
}

// avgHourlyValue multiplies the average hourly rate by the average hours
// logged per worked day.
func avgHourlyValue(history []TimeEntry, employeeID EmployeeID, date time.Time, months int) (decimal.Decimal, bool) {
	if months <= 0 {
		months = 3
	}
	pay := decimal.Zero
	hours := decimal.Zero
	days := map[string]bool{}

	for _, entry := range history {
		if entry.EntryType != EntryHours || !inLookback(entry, employeeID, date, months) {
			continue
		}
		pay = pay.Add(entry.TotalPayment)
		hours = hours.Add(entry.Hours)
		days[DayKey(employeeID, entry.Date)] = true
	}
	if len(days) == 0 || !hours.IsPositive() {
		return decimal.Decimal{}, false
	}
	hourlyRate := pay.Div(hours)
	hoursPerDay := hours.Div(decimal.NewFromInt(int64(len(days))))
	return hourlyRate.Mul(hoursPerDay), true
}

// inLookback accepts payable, non-deleted work rows of the employee in
// the months-long window ending the day before date.
func inLookback(entry TimeEntry, employeeID EmployeeID, date time.Time, months int) bool {
	if entry.EmployeeID != employeeID || entry.Deleted || !entry.Payable {
		return false
	}
	if entry.IsLeave() || entry.EntryType == EntryAdjustment {
		return false
	}
	day := dayOf(entry.Date)
	end := dayOf(date)
	start := end.AddDate(0, -months, 0)
	return !day.Before(start) && day.Before(end)
}
