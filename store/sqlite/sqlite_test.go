/*
sqlite_test.go - Store tests against an in-memory database

Each test opens a fresh ":memory:" database, so tests are independent
and need no cleanup.
*/
package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tutorpay/payroll-engine/leave"
	"github.com/tutorpay/payroll-engine/payroll"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testEmployee() payroll.Employee {
	start := payroll.Date(2023, time.September, 1)
	return payroll.Employee{
		ID:              "g-1",
		Name:            "Dana",
		Type:            payroll.EmployeeGlobal,
		WorkingDays:     payroll.ParseWorkingDays([]string{"sunday", "monday", "tuesday", "wednesday", "thursday"}),
		StartDate:       &start,
		AnnualLeaveDays: decimal.NewFromInt(14),
		MonthlyRate:     decimal.NewFromInt(10500),
		EmploymentScope: "full_time",
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestStore_EmployeeRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee()
	require.NoError(t, store.SaveEmployee(ctx, emp))

	got, err := store.GetEmployee(ctx, "g-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, emp.Name, got.Name)
	assert.Equal(t, emp.Type, got.Type)
	assert.True(t, got.WorkingDays[time.Sunday])
	assert.False(t, got.WorkingDays[time.Friday])
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2023-09-01", got.StartDate.Format("2006-01-02"))
	assert.True(t, got.AnnualLeaveDays.Equal(emp.AnnualLeaveDays))
	assert.True(t, got.MonthlyRate.Equal(emp.MonthlyRate))
	assert.Equal(t, "full_time", got.EmploymentScope)
}

func TestStore_GetEmployee_MissingIsNil(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetEmployee(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_SaveEmployee_Upserts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := testEmployee()
	require.NoError(t, store.SaveEmployee(ctx, emp))
	emp.Name = "Dana Cohen"
	require.NoError(t, store.SaveEmployee(ctx, emp))

	employees, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "Dana Cohen", employees[0].Name)
}

// =============================================================================
// TIME ENTRIES
// =============================================================================

func TestStore_TimeEntryRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rate := decimal.NewFromInt(500)
	entry := payroll.TimeEntry{
		EmployeeID:   "g-1",
		Date:         payroll.Date(2024, time.February, 5),
		EntryType:    payroll.EntryHours,
		Hours:        decimal.NewFromInt(8),
		RateUsed:     &rate,
		TotalPayment: decimal.NewFromInt(500),
		Payable:      true,
		Metadata:     map[string]any{"leave": map[string]any{"kind": "system_paid"}},
	}
	require.NoError(t, store.InsertTimeEntries(ctx, []payroll.TimeEntry{entry}))

	entries, err := store.ListTimeEntries(ctx,
		payroll.Date(2024, time.February, 1), payroll.Date(2024, time.February, 29))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got := entries[0]
	assert.NotEmpty(t, got.ID, "missing IDs are assigned on insert")
	assert.Equal(t, payroll.EntryHours, got.EntryType)
	assert.True(t, got.TotalPayment.Equal(entry.TotalPayment))
	require.NotNil(t, got.RateUsed)
	assert.True(t, got.RateUsed.Equal(rate))
	require.NotNil(t, got.Metadata)
	inner, _ := got.Metadata["leave"].(map[string]any)
	assert.Equal(t, "system_paid", inner["kind"])
}

func TestStore_SoftDeleteKeepsRowVisible(t *testing.T) {
	// GIVEN: A persisted entry
	// WHEN: Soft-deleting it
	// THEN: Listing still returns it with Deleted=true; aggregators filter

	store := newTestStore(t)
	ctx := context.Background()

	entry := payroll.TimeEntry{
		ID:         "te-1",
		EmployeeID: "g-1",
		Date:       payroll.Date(2024, time.February, 5),
		EntryType:  payroll.EntryHours,
		Hours:      decimal.NewFromInt(8),
		Payable:    true,
	}
	require.NoError(t, store.InsertTimeEntries(ctx, []payroll.TimeEntry{entry}))
	require.NoError(t, store.SoftDeleteTimeEntry(ctx, "te-1"))

	entries, err := store.ListTimeEntries(ctx,
		payroll.Date(2024, time.February, 1), payroll.Date(2024, time.February, 29))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Deleted)
}

func TestStore_SoftDeleteMissingEntryFails(t *testing.T) {
	store := newTestStore(t)
	err := store.SoftDeleteTimeEntry(context.Background(), "nope")
	assert.Error(t, err)
}

func TestStore_InsertTimeEntries_Atomic(t *testing.T) {
	// A failing row (duplicate primary key) rolls back the whole batch.
	store := newTestStore(t)
	ctx := context.Background()

	first := payroll.TimeEntry{
		ID:         "dup",
		EmployeeID: "g-1",
		Date:       payroll.Date(2024, time.February, 5),
		EntryType:  payroll.EntryHours,
		Hours:      decimal.NewFromInt(1),
	}
	require.NoError(t, store.InsertTimeEntries(ctx, []payroll.TimeEntry{first}))

	second := first
	second.Date = payroll.Date(2024, time.February, 6)
	err := store.InsertTimeEntries(ctx, []payroll.TimeEntry{
		{EmployeeID: "g-1", Date: payroll.Date(2024, time.February, 7), EntryType: payroll.EntryHours, Hours: decimal.NewFromInt(1)},
		second, // same primary key as first: fails
	})
	require.Error(t, err)

	entries, err := store.ListTimeEntries(ctx,
		payroll.Date(2024, time.February, 1), payroll.Date(2024, time.February, 29))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "failed batch must not leave partial rows")
}

// =============================================================================
// LEAVE LEDGER
// =============================================================================

func TestStore_LeaveLedgerAppendAndRead(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	entries := []leave.LedgerEntry{
		{EmployeeID: "g-1", Date: payroll.Date(2024, time.March, 10), DeltaDays: decimal.NewFromInt(-2), Source: "annual"},
		{EmployeeID: "g-1", Date: payroll.Date(2024, time.January, 1), DeltaDays: decimal.NewFromInt(14), Source: "allocation"},
		{EmployeeID: "g-2", Date: payroll.Date(2024, time.February, 1), DeltaDays: decimal.NewFromInt(-1)},
	}
	require.NoError(t, store.AppendLeaveLedger(ctx, entries))

	got, err := store.LeaveLedger(ctx, "g-1")
	require.NoError(t, err)
	require.Len(t, got, 2, "only g-1 entries")

	// Chronological order regardless of insert order.
	assert.Equal(t, "2024-01-01", got[0].Date.Format("2006-01-02"))
	assert.Equal(t, "2024-03-10", got[1].Date.Format("2006-01-02"))
	assert.Equal(t, "14", got[0].DeltaDays.String())
	assert.Equal(t, "allocation", got[0].Source)
}

// =============================================================================
// RATE CARD AND SERVICES
// =============================================================================

func TestStore_RateCardRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRateCardEntry(ctx, payroll.RateCardEntry{
		EmployeeID: "h-1",
		ServiceID:  "math",
		ValidFrom:  payroll.Date(2024, time.January, 1),
		Rate:       decimal.NewFromInt(90),
	}))
	require.NoError(t, store.SaveRateCardEntry(ctx, payroll.RateCardEntry{
		EmployeeID: "h-1",
		ValidFrom:  payroll.Date(2024, time.January, 1),
		Rate:       decimal.NewFromInt(70),
	}))

	card, err := store.RateCard(ctx)
	require.NoError(t, err)
	require.Len(t, card, 2)

	resolve := payroll.RateCardResolver(card, nil)
	quote, err := resolve("h-1", payroll.Date(2024, time.February, 5), "math")
	require.NoError(t, err)
	assert.Equal(t, "90", quote.Rate.String())
}

func TestStore_ServicesRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveService(ctx, payroll.Service{ID: "math", Name: "Math tutoring"}))

	services, err := store.ServicesByID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Math tutoring", services["math"].Name)
}

// =============================================================================
// SETTINGS AND SCHEMA
// =============================================================================

func TestStore_LeavePolicyRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	policy := leave.Policy{
		AllowHalfDay:     true,
		CarryoverEnabled: true,
		CarryoverMaxDays: decimal.NewFromInt(5),
		HolidayRules: []leave.HolidayRule{{
			ID:         "independence",
			Name:       "Independence Day",
			StartDate:  payroll.Date(2024, time.May, 11),
			EndDate:    payroll.Date(2024, time.May, 11),
			Recurrence: leave.RecurrenceYearly,
		}},
	}
	require.NoError(t, store.SaveLeavePolicy(ctx, policy))

	got, err := store.LeavePolicy(ctx)
	require.NoError(t, err)
	assert.True(t, got.CarryoverEnabled)
	assert.Equal(t, "5", got.CarryoverMaxDays.String())
	require.Len(t, got.HolidayRules, 1)
	assert.Equal(t, "independence", got.HolidayRules[0].ID)
}

func TestStore_LeavePayPolicyDefaultsWhenUnset(t *testing.T) {
	store := newTestStore(t)

	policy, err := store.LeavePayPolicy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, leave.PayMethodLegalLookback, policy.DefaultMethod)
	assert.Equal(t, 3, policy.LookbackMonths)
}

func TestStore_MetadataSupported(t *testing.T) {
	store := newTestStore(t)
	assert.True(t, store.MetadataSupported(), "fresh schema carries the metadata column")
}
