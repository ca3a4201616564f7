/*
dayagg_test.go - Unit tests for salaried per-day aggregation

CORE RULES UNDER TEST:
- An hours day pays once however many hours rows land on it
- Leave amounts and multipliers accumulate on a day
- Mixed entry types on one day flag a conflict, never auto-resolve
- Payable is the AND of all contributing rows
*/
package payroll

import (
	"testing"
	"time"
)

func TestCollectGlobalDayAggregates_HoursDayPaysOnce(t *testing.T) {
	// GIVEN: Two payable full-day hours rows on 2024-02-05
	// WHEN: Collecting day aggregates
	// THEN: One aggregate with a single day's pay and both row indices

	employees := map[EmployeeID]Employee{"g-1": globalEmployee("g-1", 10500)}
	entries := []TimeEntry{
		{EmployeeID: "g-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(500), Hours: dec(4)},
		{EmployeeID: "g-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(500), Hours: dec(4)},
	}

	aggs := CollectGlobalDayAggregates(entries, employees, FullCapabilities())
	if len(aggs) != 1 {
		t.Fatalf("expected 1 aggregate, got %d", len(aggs))
	}

	agg := aggs[DayKey("g-1", Date(2024, time.February, 5))]
	if agg == nil {
		t.Fatal("aggregate missing under the expected key")
	}
	if agg.DailyAmount.StringFixed(2) != "500.00" {
		t.Errorf("expected one day's pay 500.00, got %s", agg.DailyAmount.StringFixed(2))
	}
	if len(agg.Indices) != 2 {
		t.Errorf("both rows should be recorded, got indices %v", agg.Indices)
	}
	if agg.Conflict {
		t.Error("same-type rows must not flag conflict")
	}
}

func TestCollectGlobalDayAggregates_LeaveAccumulates(t *testing.T) {
	// Two half-day leave rows form a whole day.
	employees := map[EmployeeID]Employee{"g-1": globalEmployee("g-1", 10500)}
	entries := []TimeEntry{
		{EmployeeID: "g-1", Date: Date(2024, time.February, 7), EntryType: EntryLeaveHalfDay, Payable: true, TotalPayment: dec(500)},
		{EmployeeID: "g-1", Date: Date(2024, time.February, 7), EntryType: EntryLeaveHalfDay, Payable: true, TotalPayment: dec(500)},
	}

	aggs := CollectGlobalDayAggregates(entries, employees, FullCapabilities())
	agg := aggs[DayKey("g-1", Date(2024, time.February, 7))]
	if agg == nil {
		t.Fatal("aggregate missing")
	}
	if agg.DailyAmount.StringFixed(2) != "500.00" {
		t.Errorf("expected 500.00 (2 x half of 500), got %s", agg.DailyAmount.StringFixed(2))
	}
	if agg.Multiplier.StringFixed(1) != "1.0" {
		t.Errorf("expected multiplier sum 1.0, got %s", agg.Multiplier)
	}
}

func TestCollectGlobalDayAggregates_ConflictFlagged(t *testing.T) {
	// GIVEN: An hours row and a leave row on the same day
	// WHEN: Collecting
	// THEN: The day is flagged, amounts still summed for audit

	employees := map[EmployeeID]Employee{"g-1": globalEmployee("g-1", 10500)}
	entries := []TimeEntry{
		{EmployeeID: "g-1", Date: Date(2024, time.February, 8), EntryType: EntryHours, Payable: true, TotalPayment: dec(500), Hours: dec(8)},
		{EmployeeID: "g-1", Date: Date(2024, time.February, 8), EntryType: EntryLeaveHalfDay, Payable: true, TotalPayment: dec(500)},
	}

	aggs := CollectGlobalDayAggregates(entries, employees, FullCapabilities())
	agg := aggs[DayKey("g-1", Date(2024, time.February, 8))]
	if agg == nil {
		t.Fatal("aggregate missing")
	}
	if !agg.Conflict {
		t.Error("mixed entry types must flag a conflict")
	}
	if agg.DailyAmount.StringFixed(2) != "750.00" {
		t.Errorf("expected 500 + 250 = 750.00 for audit, got %s", agg.DailyAmount.StringFixed(2))
	}
}

func TestCollectGlobalDayAggregates_PayableIsAND(t *testing.T) {
	employees := map[EmployeeID]Employee{"g-1": globalEmployee("g-1", 10500)}
	entries := []TimeEntry{
		{EmployeeID: "g-1", Date: Date(2024, time.February, 9), EntryType: EntryLeaveHalfDay, Payable: true, TotalPayment: dec(500)},
		{EmployeeID: "g-1", Date: Date(2024, time.February, 9), EntryType: EntryLeaveHalfDay, Payable: false, TotalPayment: dec(500)},
	}

	aggs := CollectGlobalDayAggregates(entries, employees, FullCapabilities())
	agg := aggs[DayKey("g-1", Date(2024, time.February, 9))]
	if agg == nil {
		t.Fatal("aggregate missing")
	}
	if agg.Payable {
		t.Error("one non-payable segment must taint the day")
	}
}

func TestCollectGlobalDayAggregates_Skips(t *testing.T) {
	start := Date(2024, time.June, 1)
	late := globalEmployee("g-late", 10000)
	late.StartDate = &start

	employees := map[EmployeeID]Employee{
		"g-1":    globalEmployee("g-1", 10500),
		"g-late": late,
		"h-1":    hourlyEmployee("h-1"),
	}
	entries := []TimeEntry{
		// Deleted row.
		{EmployeeID: "g-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(500), Deleted: true},
		// Hourly employee: not a salaried day.
		{EmployeeID: "h-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(100), Hours: dec(1)},
		// Before start date.
		{EmployeeID: "g-late", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(500)},
		// Unpaid leave kind.
		{EmployeeID: "g-1", Date: Date(2024, time.February, 6), EntryType: EntryLeaveUnpaid, Payable: false, TotalPayment: dec(500)},
		// Session rows never form salaried days.
		{EmployeeID: "g-1", Date: Date(2024, time.February, 7), EntryType: EntrySession, Payable: true, TotalPayment: dec(100), SessionsCount: 1, StudentsCount: 1},
	}

	aggs := CollectGlobalDayAggregates(entries, employees, FullCapabilities())
	if len(aggs) != 0 {
		t.Errorf("expected every row skipped, got %d aggregates", len(aggs))
	}
}

// =============================================================================
// AGREEMENT WITH PERIOD TOTALS
// =============================================================================

func TestDayAggregatesAgreeWithPeriodTotals(t *testing.T) {
	// GIVEN: A month of mixed salaried rows
	// WHEN: Running both aggregators
	// THEN: The payable day amounts sum to the period total pay

	employees := map[EmployeeID]Employee{"g-1": globalEmployee("g-1", 10500)}
	entries := []TimeEntry{
		{EmployeeID: "g-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(500), Hours: dec(8)},
		{EmployeeID: "g-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(500), Hours: dec(2)},
		{EmployeeID: "g-1", Date: Date(2024, time.February, 6), EntryType: EntryHours, Payable: true, TotalPayment: dec(500), Hours: dec(8)},
		{EmployeeID: "g-1", Date: Date(2024, time.February, 7), EntryType: EntryLeaveHalfDay, Payable: true, TotalPayment: dec(500)},
		{EmployeeID: "g-1", Date: Date(2024, time.February, 7), EntryType: EntryLeaveHalfDay, Payable: true, TotalPayment: dec(500)},
		{EmployeeID: "g-1", Date: Date(2024, time.February, 8), EntryType: EntryLeaveSystemPaid, Payable: true, TotalPayment: dec(500)},
	}

	totals := ComputePeriodTotals(PeriodTotalsInput{
		Entries:   entries,
		Employees: employees,
		Filter:    febFilter(),
		Caps:      FullCapabilities(),
	})

	aggs := CollectGlobalDayAggregates(entries, employees, FullCapabilities())
	daySum := dec(0)
	for _, agg := range aggs {
		if agg.Payable {
			daySum = daySum.Add(agg.DailyAmount)
		}
	}

	if !totals.TotalPay.Equal(daySum) {
		t.Errorf("aggregators disagree: period=%s days=%s", totals.TotalPay, daySum)
	}
	if totals.TotalPay.StringFixed(2) != "2000.00" {
		t.Errorf("expected 2000.00, got %s", totals.TotalPay.StringFixed(2))
	}
}
