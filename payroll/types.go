/*
Package payroll computes how much each employee is owed.

PURPOSE:
  This package holds the payroll core: daily-rate derivation for
  salaried employees, per-row validation and payment computation, and
  the two aggregators that fold time-entry rows into period totals and
  per-day payable units. All functions are pure and synchronous; the
  caller supplies a consistent snapshot of rows and persists any
  resulting writes.

KEY CONCEPTS IN THIS FILE (types.go):
  - Employee: payment terms (type, working days, start date)
  - TimeEntry: one segment of work, leave, or adjustment on one day
  - RateResolver: external rate table lookup contract

EMPLOYEE TYPES:
  hourly:     paid hours x rate
  global:     salaried; paid a flat daily rate per calendar day worked,
              derived from the monthly rate and configured working days
  instructor: paid per session (sessions x students x rate)

DESIGN PRINCIPLES:
  1. Purity: no I/O, no hidden state; safe for concurrent reporting views
  2. Precision: decimal.Decimal for every monetary and day figure
  3. TotalPayment is the authoritative payable amount per row
  4. Payable=false rows contribute zero pay everywhere, always

SEE ALSO:
  - rates.go:    Working-day counting and daily-rate derivation
  - totals.go:   Period-level aggregation
  - dayagg.go:   Same-day dedup for salaried employees
  - validate.go: Per-row constraint checking and payment computation
*/
package payroll

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tutorpay/payroll-engine/leave"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type ServiceID string

// =============================================================================
// EMPLOYEE
// =============================================================================

type EmployeeType string

const (
	EmployeeHourly     EmployeeType = "hourly"
	EmployeeGlobal     EmployeeType = "global"
	EmployeeInstructor EmployeeType = "instructor"
)

// Employee carries the payment terms the payroll engine reads.
// The record is maintained elsewhere; this package never mutates it.
type Employee struct {
	ID              EmployeeID
	Name            string
	Type            EmployeeType
	WorkingDays     map[time.Weekday]bool
	StartDate       *time.Time // entries dated before it are void
	AnnualLeaveDays decimal.Decimal
	MonthlyRate     decimal.Decimal // global employees only
	LeavePayMethod  string
	EmploymentScope string
}

// Started reports whether the employee had started by the given date.
// A missing start date counts as started.
func (e Employee) Started(date time.Time) bool {
	if e.StartDate == nil {
		return true
	}
	return !dayOf(date).Before(dayOf(*e.StartDate))
}

// LeaveTerms adapts the employee record for the leave balance engine.
func (e Employee) LeaveTerms() leave.EmployeeTerms {
	return leave.EmployeeTerms{StartDate: e.StartDate, AnnualDays: e.AnnualLeaveDays}
}

// ParseWorkingDays builds a working-day set from lowercase day names.
// Unknown names are ignored.
func ParseWorkingDays(names []string) map[time.Weekday]bool {
	byName := map[string]time.Weekday{
		"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
		"wednesday": time.Wednesday, "thursday": time.Thursday,
		"friday": time.Friday, "saturday": time.Saturday,
	}
	days := make(map[time.Weekday]bool, len(names))
	for _, name := range names {
		if wd, ok := byName[name]; ok {
			days[wd] = true
		}
	}
	return days
}

// WorkingDayNames is the inverse of ParseWorkingDays, in week order.
func WorkingDayNames(days map[time.Weekday]bool) []string {
	order := []time.Weekday{
		time.Sunday, time.Monday, time.Tuesday, time.Wednesday,
		time.Thursday, time.Friday, time.Saturday,
	}
	names := []string{}
	for _, wd := range order {
		if days[wd] {
			names = append(names, map[time.Weekday]string{
				time.Sunday: "sunday", time.Monday: "monday", time.Tuesday: "tuesday",
				time.Wednesday: "wednesday", time.Thursday: "thursday",
				time.Friday: "friday", time.Saturday: "saturday",
			}[wd])
		}
	}
	return names
}

// =============================================================================
// SERVICE
// =============================================================================

// Service is a billable offering (a class, a tutoring track).
type Service struct {
	ID   ServiceID
	Name string
}

// =============================================================================
// TIME ENTRY
// =============================================================================

type EntryType string

const (
	EntryHours      EntryType = "hours"
	EntrySession    EntryType = "session"
	EntryAdjustment EntryType = "adjustment"

	EntryLeaveSystemPaid   EntryType = "leave_system_paid"
	EntryLeaveEmployeePaid EntryType = "leave_employee_paid"
	EntryLeaveUnpaid       EntryType = "leave_unpaid"
	EntryLeaveHalfDay      EntryType = "leave_half_day"
)

// TimeEntry is one segment of work, leave, or adjustment on one day.
// Multiple rows may exist for the same employee and day; salaried
// employees must be aggregated per day, never summed naively.
//
// Rows are soft-deleted via Deleted and stay in the aggregation input.
type TimeEntry struct {
	ID         string
	EmployeeID EmployeeID
	Date       time.Time
	EntryType  EntryType
	ServiceID  ServiceID

	Hours            decimal.Decimal
	SessionsCount    int
	StudentsCount    int
	AdjustmentAmount *decimal.Decimal

	RateUsed     *decimal.Decimal
	TotalPayment decimal.Decimal
	Payable      bool
	Deleted      bool

	// Legacy leave encodings; see the leave package.
	LeaveKind     string
	LeaveType     string
	LeaveSubtype  string
	LeaveFraction float64
	Metadata      map[string]any
}

// LeaveFields extracts the classification-relevant fields.
// Metadata is withheld when the capability set does not include it.
func (t TimeEntry) LeaveFields(caps Capabilities) leave.EntryFields {
	fields := leave.EntryFields{
		EntryType: string(t.EntryType),
		Kind:      t.LeaveKind,
		Type:      t.LeaveType,
		Subtype:   t.LeaveSubtype,
		Fraction:  t.LeaveFraction,
	}
	if caps.SessionMetadata {
		fields.Metadata = t.Metadata
	}
	return fields
}

// LeaveKindOf resolves the canonical leave kind of the row, if any.
func (t TimeEntry) LeaveKindOf(caps Capabilities) (leave.Kind, bool) {
	return leave.InferKind(t.LeaveFields(caps))
}

// IsLeave reports whether the row's entry type is a canonical leave type.
func (t TimeEntry) IsLeave() bool {
	return leave.IsLeaveEntryType(string(t.EntryType))
}

// =============================================================================
// COLLABORATOR CONTRACTS
// =============================================================================

// RateQuote is the result of a rate-table lookup.
type RateQuote struct {
	Rate   decimal.Decimal
	Reason string
}

// RateResolver looks up the applicable rate for an employee on a date.
// For global employees the rate is the monthly salary; for everyone
// else it is the hourly or per-session rate for the service.
type RateResolver func(employeeID EmployeeID, date time.Time, serviceID ServiceID) (RateQuote, error)

// LeaveDayValueSelector values one day of leave in currency for
// employees without a derived daily rate (lookback average, fixed rate).
// ok=false means no usable value; callers fall back to stored amounts.
type LeaveDayValueSelector func(employeeID EmployeeID, date time.Time) (decimal.Decimal, bool)

// =============================================================================
// CAPABILITIES - Injected backend feature detection
// =============================================================================

// Capabilities describes what the backing store supports. It is
// detected once at startup and injected explicitly; tests set it
// directly instead of flipping hidden module state.
type Capabilities struct {
	// SessionMetadata is true when rows can carry a metadata object.
	SessionMetadata bool
}

// FullCapabilities enables everything; the common production value.
func FullCapabilities() Capabilities {
	return Capabilities{SessionMetadata: true}
}

// =============================================================================
// DATE HELPERS
// =============================================================================

// Date builds a day-granular UTC date.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayKey identifies one employee-day, the unit of salaried payment.
func DayKey(id EmployeeID, date time.Time) string {
	return string(id) + "|" + dayOf(date).Format("2006-01-02")
}
