/*
totals_test.go - Unit tests for period-level aggregation

TESTED CONTRACT:
- The header totals equal the sum of the per-employee rows, exactly
- A salaried employee's day pays once however many hours rows it has
- Leave rows accumulate on a day (two half-days form a whole)
- Payable=false rows contribute zero pay but still tally time
- Identical input yields identical output
*/
package payroll

import (
	"testing"
	"time"
)

func febFilter() PeriodFilter {
	return PeriodFilter{
		Start: Date(2024, time.February, 1),
		End:   Date(2024, time.February, 29),
	}
}

// =============================================================================
// HEADER / TABLE AGREEMENT
// =============================================================================

func TestComputePeriodTotals_HeaderEqualsRowSum(t *testing.T) {
	employees := map[EmployeeID]Employee{
		"g-1": globalEmployee("g-1", 10500),
		"h-1": hourlyEmployee("h-1"),
	}
	rate := dec(500)
	entries := []TimeEntry{
		{EmployeeID: "g-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(500), Hours: dec(8), RateUsed: &rate},
		{EmployeeID: "h-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(240), Hours: dec(3)},
		{EmployeeID: "h-1", Date: Date(2024, time.February, 6), EntryType: EntrySession, Payable: true, TotalPayment: dec(180), SessionsCount: 2, StudentsCount: 3, ServiceID: "math"},
	}

	totals := ComputePeriodTotals(PeriodTotalsInput{
		Entries:   entries,
		Employees: employees,
		Filter:    febFilter(),
		Caps:      FullCapabilities(),
	})

	sum := dec(0)
	for _, row := range totals.ByEmployee {
		sum = sum.Add(row.Pay)
	}
	if !totals.TotalPay.Equal(sum) {
		t.Errorf("header %s != row sum %s", totals.TotalPay, sum)
	}
	if totals.TotalPay.StringFixed(2) != "920.00" {
		t.Errorf("expected total pay 920.00, got %s", totals.TotalPay.StringFixed(2))
	}
	if totals.TotalSessions != 2 {
		t.Errorf("expected 2 sessions, got %d", totals.TotalSessions)
	}
}

func TestComputePeriodTotals_Deterministic(t *testing.T) {
	employees := map[EmployeeID]Employee{
		"a": hourlyEmployee("a"),
		"b": hourlyEmployee("b"),
		"c": hourlyEmployee("c"),
	}
	entries := []TimeEntry{
		{EmployeeID: "c", Date: Date(2024, time.February, 1), EntryType: EntryHours, Payable: true, TotalPayment: dec(10), Hours: dec(1)},
		{EmployeeID: "a", Date: Date(2024, time.February, 1), EntryType: EntryHours, Payable: true, TotalPayment: dec(20), Hours: dec(2)},
		{EmployeeID: "b", Date: Date(2024, time.February, 1), EntryType: EntryHours, Payable: true, TotalPayment: dec(30), Hours: dec(3)},
	}
	in := PeriodTotalsInput{Entries: entries, Employees: employees, Filter: febFilter(), Caps: FullCapabilities()}

	first := ComputePeriodTotals(in)
	for i := 0; i < 10; i++ {
		again := ComputePeriodTotals(in)
		if !again.TotalPay.Equal(first.TotalPay) || len(again.ByEmployee) != len(first.ByEmployee) {
			t.Fatalf("run %d disagrees with first run", i)
		}
		for j := range again.ByEmployee {
			if again.ByEmployee[j].EmployeeID != first.ByEmployee[j].EmployeeID {
				t.Fatalf("run %d: row order changed", i)
			}
		}
	}
	// Rows come back sorted by employee ID.
	if first.ByEmployee[0].EmployeeID != "a" || first.ByEmployee[2].EmployeeID != "c" {
		t.Errorf("expected rows sorted by employee ID, got %v", first.ByEmployee)
	}
}

// =============================================================================
// SALARIED DAY DEDUP
// =============================================================================

func TestComputePeriodTotals_SalariedDayPaysOnce(t *testing.T) {
	// GIVEN: Two payable full-day hours rows on the same date for a global employee
	// WHEN: Aggregating the period
	// THEN: The day pays once; both rows' hours still tally

	employees := map[EmployeeID]Employee{"g-1": globalEmployee("g-1", 10500)}
	entries := []TimeEntry{
		{EmployeeID: "g-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(500), Hours: dec(4)},
		{EmployeeID: "g-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(500), Hours: dec(4)},
		{EmployeeID: "g-1", Date: Date(2024, time.February, 6), EntryType: EntryHours, Payable: true, TotalPayment: dec(500), Hours: dec(8)},
	}

	totals := ComputePeriodTotals(PeriodTotalsInput{
		Entries:   entries,
		Employees: employees,
		Filter:    febFilter(),
		Caps:      FullCapabilities(),
	})

	if totals.TotalPay.StringFixed(2) != "1000.00" {
		t.Errorf("expected 1000.00 (two distinct days), got %s", totals.TotalPay.StringFixed(2))
	}
	if totals.TotalHours.StringFixed(0) != "16" {
		t.Errorf("expected 16 hours tallied, got %s", totals.TotalHours)
	}
	if totals.UniquePaidDays != 2 {
		t.Errorf("expected 2 unique paid days, got %d", totals.UniquePaidDays)
	}
}

func TestComputePeriodTotals_HourlyRowsAllPay(t *testing.T) {
	// Hourly employees have no per-day flat rate: every row pays.
	employees := map[EmployeeID]Employee{"h-1": hourlyEmployee("h-1")}
	entries := []TimeEntry{
		{EmployeeID: "h-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(160), Hours: dec(2)},
		{EmployeeID: "h-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(240), Hours: dec(3)},
	}

	totals := ComputePeriodTotals(PeriodTotalsInput{
		Entries:   entries,
		Employees: employees,
		Filter:    febFilter(),
		Caps:      FullCapabilities(),
	})

	if totals.TotalPay.StringFixed(2) != "400.00" {
		t.Errorf("expected 400.00, got %s", totals.TotalPay.StringFixed(2))
	}
	if totals.UniquePaidDays != 1 {
		t.Errorf("expected 1 unique paid day, got %d", totals.UniquePaidDays)
	}
}

// =============================================================================
// LEAVE ROWS
// =============================================================================

func TestComputePeriodTotals_HalfDayLeave(t *testing.T) {
	// GIVEN: A half-day leave row stored at the full daily rate of 500
	// WHEN: Aggregating
	// THEN: Pay is 250 and paid leave days gain 0.5

	employees := map[EmployeeID]Employee{"g-1": globalEmployee("g-1", 10500)}
	entries := []TimeEntry{
		{EmployeeID: "g-1", Date: Date(2024, time.February, 7), EntryType: EntryLeaveHalfDay, Payable: true, TotalPayment: dec(500)},
	}

	totals := ComputePeriodTotals(PeriodTotalsInput{
		Entries:   entries,
		Employees: employees,
		Filter:    febFilter(),
		Caps:      FullCapabilities(),
	})

	if totals.TotalPay.StringFixed(2) != "250.00" {
		t.Errorf("expected 250.00, got %s", totals.TotalPay.StringFixed(2))
	}
	if totals.TotalPaidLeaveDays.StringFixed(1) != "0.5" {
		t.Errorf("expected 0.5 paid leave days, got %s", totals.TotalPaidLeaveDays)
	}
}

func TestComputePeriodTotals_TwoHalfDaysFormWholeDay(t *testing.T) {
	employees := map[EmployeeID]Employee{"g-1": globalEmployee("g-1", 10500)}
	entries := []TimeEntry{
		{EmployeeID: "g-1", Date: Date(2024, time.February, 7), EntryType: EntryLeaveHalfDay, Payable: true, TotalPayment: dec(500)},
		{EmployeeID: "g-1", Date: Date(2024, time.February, 7), EntryType: EntryLeaveHalfDay, Payable: true, TotalPayment: dec(500)},
	}

	totals := ComputePeriodTotals(PeriodTotalsInput{
		Entries:   entries,
		Employees: employees,
		Filter:    febFilter(),
		Caps:      FullCapabilities(),
	})

	if totals.TotalPay.StringFixed(2) != "500.00" {
		t.Errorf("expected 500.00 (a whole day), got %s", totals.TotalPay.StringFixed(2))
	}
	if totals.TotalPaidLeaveDays.StringFixed(1) != "1.0" {
		t.Errorf("expected 1.0 paid leave days, got %s", totals.TotalPaidLeaveDays)
	}
}

func TestComputePeriodTotals_UnpaidLeaveContributesNothing(t *testing.T) {
	employees := map[EmployeeID]Employee{"g-1": globalEmployee("g-1", 10500)}
	entries := []TimeEntry{
		{EmployeeID: "g-1", Date: Date(2024, time.February, 8), EntryType: EntryLeaveUnpaid, Payable: false, TotalPayment: dec(999)},
	}

	totals := ComputePeriodTotals(PeriodTotalsInput{
		Entries:   entries,
		Employees: employees,
		Filter:    febFilter(),
		Caps:      FullCapabilities(),
	})

	if !totals.TotalPay.IsZero() {
		t.Errorf("unpaid leave must not pay, got %s", totals.TotalPay)
	}
	if !totals.TotalPaidLeaveDays.IsZero() {
		t.Errorf("unpaid leave must not count as paid leave days, got %s", totals.TotalPaidLeaveDays)
	}
	if totals.UniquePaidDays != 0 {
		t.Errorf("expected 0 unique paid days, got %d", totals.UniquePaidDays)
	}
}

// =============================================================================
// FILTERS AND EXCLUSIONS
// =============================================================================

func TestComputePeriodTotals_Exclusions(t *testing.T) {
	start := Date(2024, time.February, 10)
	late := globalEmployee("g-late", 10000)
	late.StartDate = &start

	employees := map[EmployeeID]Employee{
		"g-late": late,
		"h-1":    hourlyEmployee("h-1"),
	}
	entries := []TimeEntry{
		// Deleted: skipped.
		{EmployeeID: "h-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(100), Hours: dec(1), Deleted: true},
		// Outside the window: skipped.
		{EmployeeID: "h-1", Date: Date(2024, time.March, 1), EntryType: EntryHours, Payable: true, TotalPayment: dec(100), Hours: dec(1)},
		// Before the employee's start date: skipped.
		{EmployeeID: "g-late", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(100), Hours: dec(1)},
		// Unknown employee: skipped.
		{EmployeeID: "ghost", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(100), Hours: dec(1)},
		// Kept.
		{EmployeeID: "h-1", Date: Date(2024, time.February, 6), EntryType: EntryHours, Payable: true, TotalPayment: dec(75), Hours: dec(1)},
	}

	totals := ComputePeriodTotals(PeriodTotalsInput{
		Entries:   entries,
		Employees: employees,
		Filter:    febFilter(),
		Caps:      FullCapabilities(),
	})

	if totals.TotalPay.StringFixed(2) != "75.00" {
		t.Errorf("expected 75.00, got %s", totals.TotalPay.StringFixed(2))
	}
	if len(totals.ByEmployee) != 1 {
		t.Errorf("expected one employee row, got %d", len(totals.ByEmployee))
	}
}

func TestComputePeriodTotals_EmployeeTypeFilter(t *testing.T) {
	employees := map[EmployeeID]Employee{
		"g-1": globalEmployee("g-1", 10000),
		"h-1": hourlyEmployee("h-1"),
	}
	entries := []TimeEntry{
		{EmployeeID: "g-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(500), Hours: dec(8)},
		{EmployeeID: "h-1", Date: Date(2024, time.February, 5), EntryType: EntryHours, Payable: true, TotalPayment: dec(200), Hours: dec(2)},
	}

	filter := febFilter()
	filter.EmployeeTypes = []EmployeeType{EmployeeHourly}

	totals := ComputePeriodTotals(PeriodTotalsInput{
		Entries:   entries,
		Employees: employees,
		Filter:    filter,
		Caps:      FullCapabilities(),
	})

	if totals.TotalPay.StringFixed(2) != "200.00" {
		t.Errorf("expected only the hourly employee's pay, got %s", totals.TotalPay.StringFixed(2))
	}
}

func TestComputePeriodTotals_ServiceFilterIgnoresServicelessRows(t *testing.T) {
	// Rows without a service (hours, leave) survive a service filter.
	employees := map[EmployeeID]Employee{"h-1": hourlyEmployee("h-1")}
	entries := []TimeEntry{
		{EmployeeID: "h-1", Date: Date(2024, time.February, 5), EntryType: EntrySession, Payable: true, TotalPayment: dec(100), SessionsCount: 1, StudentsCount: 1, ServiceID: "math"},
		{EmployeeID: "h-1", Date: Date(2024, time.February, 5), EntryType: EntrySession, Payable: true, TotalPayment: dec(100), SessionsCount: 1, StudentsCount: 1, ServiceID: "english"},
		{EmployeeID: "h-1", Date: Date(2024, time.February, 6), EntryType: EntryHours, Payable: true, TotalPayment: dec(50), Hours: dec(1)},
	}

	filter := febFilter()
	filter.ServiceIDs = []ServiceID{"math"}

	totals := ComputePeriodTotals(PeriodTotalsInput{
		Entries:   entries,
		Employees: employees,
		Filter:    filter,
		Caps:      FullCapabilities(),
	})

	if totals.TotalPay.StringFixed(2) != "150.00" {
		t.Errorf("expected math session + serviceless hours = 150.00, got %s", totals.TotalPay.StringFixed(2))
	}
}

// =============================================================================
// ADJUSTMENTS
// =============================================================================

func TestComputePeriodTotals_Adjustments(t *testing.T) {
	employees := map[EmployeeID]Employee{"h-1": hourlyEmployee("h-1")}
	entries := []TimeEntry{
		{EmployeeID: "h-1", Date: Date(2024, time.February, 5), EntryType: EntryAdjustment, Payable: true, TotalPayment: dec(150)},
		{EmployeeID: "h-1", Date: Date(2024, time.February, 6), EntryType: EntryAdjustment, Payable: true, TotalPayment: dec(-50)},
	}

	totals := ComputePeriodTotals(PeriodTotalsInput{
		Entries:   entries,
		Employees: employees,
		Filter:    febFilter(),
		Caps:      FullCapabilities(),
	})

	if totals.TotalPay.StringFixed(2) != "100.00" {
		t.Errorf("expected net 100.00, got %s", totals.TotalPay.StringFixed(2))
	}
	if totals.TotalAdjustments.StringFixed(2) != "100.00" {
		t.Errorf("expected adjustments sum 100.00, got %s", totals.TotalAdjustments.StringFixed(2))
	}
	if totals.ByEmployee[0].Adjustments != 2 {
		t.Errorf("expected 2 adjustment rows, got %d", totals.ByEmployee[0].Adjustments)
	}
}
