/*
dayagg.go - Same-day aggregation for salaried employees

PURPOSE:
  Global (salaried) employees are paid per calendar day worked, not per
  entry. Detail tables render one line per employee-day; this reducer
  collapses the contributing rows into that line. It is distinct from
  ComputePeriodTotals but must agree with it numerically - the two are
  tested against each other.

RULES:
  Skipped entirely: deleted rows, non-global employees, rows before the
  employee's start date, entry types other than hours/leave, unpaid
  leave kinds.

  hours rows: the first row establishes the day's payment; further
  hours rows on the same day are recorded but add nothing (the day is
  already paid at the flat daily rate).

  leave rows: amounts and multipliers accumulate (two half-days form a
  whole day).

  Conflict: two rows at one key disagreeing on entry type signal bad
  data. The flag is surfaced to the UI, never auto-resolved.

  Payable: the AND of all contributing rows. One non-payable segment
  taints the day's payable display, though amounts are still summed for
  audit visibility.
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tutorpay/payroll-engine/leave"
)

// DayAggregate is one payable employee-day as shown by detail tables.
type DayAggregate struct {
	EmployeeID EmployeeID
	Date       time.Time
	DayType    EntryType
	Indices    []int // positions of contributing rows in the input slice

	DailyAmount decimal.Decimal
	Multiplier  decimal.Decimal
	Payable     bool
	Conflict    bool
}

// CollectGlobalDayAggregates folds rows into per-day payable units,
// keyed by DayKey(employee, date).
func CollectGlobalDayAggregates(entries []TimeEntry, employees map[EmployeeID]Employee, caps Capabilities) map[string]*DayAggregate {
	out := map[string]*DayAggregate{}

	for i, entry := range entries {
		if entry.Deleted {
			continue
		}
		emp, ok := employees[entry.EmployeeID]
		if !ok || emp.Type != EmployeeGlobal {
			continue
		}
		if !emp.Started(entry.Date) {
			continue
		}

		isLeave := entry.IsLeave()
		if entry.EntryType != EntryHours && !isLeave {
			continue
		}

		var kind leave.Kind
		if isLeave {
			kind, ok = entry.LeaveKindOf(caps)
			if !ok || !kind.Payable() {
				continue
			}
		}

		key := DayKey(entry.EmployeeID, entry.Date)
		agg := out[key]
		if agg == nil {
			agg = &DayAggregate{
				EmployeeID:  entry.EmployeeID,
				Date:        dayOf(entry.Date),
				DayType:     entry.EntryType,
				DailyAmount: decimal.Zero,
				Multiplier:  decimal.Zero,
				Payable:     true,
			}
			out[key] = agg
		}

		agg.Indices = append(agg.Indices, i)
		if entry.EntryType != agg.DayType {
			agg.Conflict = true
		}
		agg.Payable = agg.Payable && entry.Payable

		if isLeave {
			multiplier := leave.ValueMultiplier(entry.LeaveFields(caps))
			agg.DailyAmount = agg.DailyAmount.Add(entry.TotalPayment.Mul(multiplier))
			agg.Multiplier = agg.Multiplier.Add(multiplier)
			continue
		}

		// hours: the day pays once, on its first hours row.
		if len(agg.Indices) == 1 || !hasHoursBefore(entries, agg.Indices, i) {
			agg.DailyAmount = agg.DailyAmount.Add(entry.TotalPayment)
		}
	}

	return out
}

// hasHoursBefore reports whether an earlier contributing row at the same
// key was already an hours row.
func hasHoursBefore(entries []TimeEntry, indices []int, current int) bool {
	for _, idx := range indices {
		if idx == current {
			continue
		}
		if entries[idx].EntryType == EntryHours {
			return true
		}
	}
	return false
}
