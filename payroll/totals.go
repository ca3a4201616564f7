/*
totals.go - Period-level payroll aggregation

PURPOSE:
  ComputePeriodTotals is the central reporting fold: given a snapshot of
  time-entry rows and the employee roster, it produces per-employee and
  organization-wide totals for a date window. The summary dashboard and
  the detail report both call it; the tested contract is that the header
  figure equals the sum of the per-employee rows, exactly, and that
  identical input yields identical output.

SALARIED DAY DEDUP:
  A global employee's day is one payable unit. Two full-day hours rows
  on the same date pay once; the second row is still visible to the
  detail table (see dayagg.go) but adds nothing here. Leave rows DO
  accumulate on a day - two half-days make a whole.

PAYABLE:
  Rows with Payable=false contribute zero pay regardless of any stored
  amount. Hours and session counters still tally; they measure time,
  not money.
*/
package payroll

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// INPUT
// =============================================================================

// PeriodFilter narrows the row set. Empty slices mean "no filter".
type PeriodFilter struct {
	Start time.Time
	End   time.Time

	EmployeeIDs      []EmployeeID
	ServiceIDs       []ServiceID
	EmployeeTypes    []EmployeeType
	EmploymentScopes []string
}

// PeriodTotalsInput bundles everything the aggregator reads.
type PeriodTotalsInput struct {
	Entries   []TimeEntry
	Employees map[EmployeeID]Employee
	Filter    PeriodFilter

	// LeaveDayValue revalues payable leave days for employees without a
	// derived daily rate. Optional; stored row amounts are the fallback.
	LeaveDayValue LeaveDayValueSelector

	Caps Capabilities
}

// =============================================================================
// OUTPUT
// =============================================================================

// EmployeeTotals is one employee's share of the period.
type EmployeeTotals struct {
	EmployeeID     EmployeeID
	Pay            decimal.Decimal
	Hours          decimal.Decimal
	Sessions       int
	PaidLeaveDays  decimal.Decimal
	Adjustments    int
	AdjustmentsSum decimal.Decimal
	UniquePaidDays int
}

// PeriodTotals is the organization-wide fold plus the per-employee rows.
type PeriodTotals struct {
	TotalPay           decimal.Decimal
	TotalHours         decimal.Decimal
	TotalSessions      int
	TotalPaidLeaveDays decimal.Decimal
	TotalAdjustments   decimal.Decimal
	UniquePaidDays     int

	ByEmployee []EmployeeTotals
}

// =============================================================================
// AGGREGATION
// =============================================================================

// ComputePeriodTotals folds the row snapshot into period totals.
// Pure and deterministic: repeated calls with the same input agree.
func ComputePeriodTotals(in PeriodTotalsInput) PeriodTotals {
	perEmployee := map[EmployeeID]*EmployeeTotals{}
	paidDays := map[string]bool{}        // DayKey -> had payable contribution
	salariedHoursPaid := map[string]bool{} // DayKey -> hours day already paid

	for _, entry := range in.Entries {
		emp, ok := in.Employees[entry.EmployeeID]
		if !ok {
			continue
		}
		if !includeEntry(entry, emp, in.Filter) {
			continue
		}

		totals := perEmployee[entry.EmployeeID]
		if totals == nil {
			totals = &EmployeeTotals{
				EmployeeID:     entry.EmployeeID,
				Pay:            decimal.Zero,
				Hours:          decimal.Zero,
				PaidLeaveDays:  decimal.Zero,
				AdjustmentsSum: decimal.Zero,
			}
			perEmployee[entry.EmployeeID] = totals
		}

		pay := decimal.Zero
		key := DayKey(entry.EmployeeID, entry.Date)

		switch {
		case entry.IsLeave():
			var selector LeaveDayValueSelector
			if emp.Type != EmployeeGlobal {
				selector = in.LeaveDayValue
			}
			value := ResolveLeaveSessionValue(entry, selector, emp, in.Caps)
			pay = value.Amount
			totals.PaidLeaveDays = totals.PaidLeaveDays.Add(value.Multiplier)

		case entry.EntryType == EntryHours:
			totals.Hours = totals.Hours.Add(entry.Hours)
			if entry.Payable {
				if emp.Type == EmployeeGlobal {
					// One payable unit per salaried day.
					if !salariedHoursPaid[key] {
						salariedHoursPaid[key] = true
						pay = entry.TotalPayment
					}
				} else {
					pay = entry.TotalPayment
				}
			}

		case entry.EntryType == EntrySession:
			totals.Sessions += entry.SessionsCount
			if entry.Payable {
				pay = entry.TotalPayment
			}

		case entry.EntryType == EntryAdjustment:
			totals.Adjustments++
			totals.AdjustmentsSum = totals.AdjustmentsSum.Add(entry.TotalPayment)
			if entry.Payable {
				pay = entry.TotalPayment
			}

		default:
			if entry.Payable {
				pay = entry.TotalPayment
			}
		}

		totals.Pay = totals.Pay.Add(pay)
		if !pay.IsZero() && !paidDays[key] {
			paidDays[key] = true
			totals.UniquePaidDays++
		}
	}

	return assemble(perEmployee)
}

// includeEntry applies the window, soft-delete, filter, and pre-start rules.
func includeEntry(entry TimeEntry, emp Employee, f PeriodFilter) bool {
	if entry.Deleted {
		return false
	}
	day := dayOf(entry.Date)
	if !f.Start.IsZero() && day.Before(dayOf(f.Start)) {
		return false
	}
	if !f.End.IsZero() && day.After(dayOf(f.End)) {
		return false
	}
	if !emp.Started(entry.Date) {
		return false
	}
	if len(f.EmployeeIDs) > 0 && !containsID(f.EmployeeIDs, entry.EmployeeID) {
		return false
	}
	if len(f.ServiceIDs) > 0 && entry.ServiceID != "" && !containsService(f.ServiceIDs, entry.ServiceID) {
		return false
	}
	if len(f.EmployeeTypes) > 0 && !containsType(f.EmployeeTypes, emp.Type) {
		return false
	}
	if len(f.EmploymentScopes) > 0 && !containsString(f.EmploymentScopes, emp.EmploymentScope) {
		return false
	}
	return true
}

// assemble sums the per-employee rows into the header figures.
// TotalPay is built from the same accumulators as ByEmployee, so the
// header/table agreement holds by construction.
func assemble(perEmployee map[EmployeeID]*EmployeeTotals) PeriodTotals {
	out := PeriodTotals{
		TotalPay:           decimal.Zero,
		TotalHours:         decimal.Zero,
		TotalPaidLeaveDays: decimal.Zero,
		TotalAdjustments:   decimal.Zero,
	}

	ids := make([]EmployeeID, 0, len(perEmployee))
	for id := range perEmployee {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		t := perEmployee[id]
		out.ByEmployee = append(out.ByEmployee, *t)
		out.TotalPay = out.TotalPay.Add(t.Pay)
		out.TotalHours = out.TotalHours.Add(t.Hours)
		out.TotalSessions += t.Sessions
		out.TotalPaidLeaveDays = out.TotalPaidLeaveDays.Add(t.PaidLeaveDays)
		out.TotalAdjustments = out.TotalAdjustments.Add(t.AdjustmentsSum)
		out.UniquePaidDays += t.UniquePaidDays
	}
	return out
}

func containsID(xs []EmployeeID, x EmployeeID) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsService(xs []ServiceID, x ServiceID) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsType(xs []EmployeeType, x EmployeeType) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

func containsString(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
