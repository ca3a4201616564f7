/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures decoupling the internal domain model from the API
  contract. Monetary and day figures are serialized as floats; the
  engine keeps full decimal precision internally and rounds only here.

NAMING CONVENTION:
  - *DTO: response types returned to clients
  - *Request: request body types from clients
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/tutorpay/payroll-engine/leave"
	"github.com/tutorpay/payroll-engine/payroll"
)

// =============================================================================
// EMPLOYEES
// =============================================================================

type EmployeeDTO struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	EmployeeType    string   `json:"employee_type"`
	WorkingDays     []string `json:"working_days"`
	StartDate       string   `json:"start_date,omitempty"`
	AnnualLeaveDays float64  `json:"annual_leave_days"`
	MonthlyRate     float64  `json:"monthly_rate,omitempty"`
	LeavePayMethod  string   `json:"leave_pay_method,omitempty"`
	EmploymentScope string   `json:"employment_scope,omitempty"`
}

type CreateEmployeeRequest struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	EmployeeType    string   `json:"employee_type"`
	WorkingDays     []string `json:"working_days"`
	StartDate       string   `json:"start_date"`
	AnnualLeaveDays float64  `json:"annual_leave_days"`
	MonthlyRate     float64  `json:"monthly_rate"`
	LeavePayMethod  string   `json:"leave_pay_method"`
	EmploymentScope string   `json:"employment_scope"`
}

func employeeDTO(e payroll.Employee) EmployeeDTO {
	dto := EmployeeDTO{
		ID:              string(e.ID),
		Name:            e.Name,
		EmployeeType:    string(e.Type),
		WorkingDays:     payroll.WorkingDayNames(e.WorkingDays),
		AnnualLeaveDays: e.AnnualLeaveDays.InexactFloat64(),
		MonthlyRate:     e.MonthlyRate.InexactFloat64(),
		LeavePayMethod:  e.LeavePayMethod,
		EmploymentScope: e.EmploymentScope,
	}
	if e.StartDate != nil {
		dto.StartDate = e.StartDate.Format("2006-01-02")
	}
	return dto
}

// =============================================================================
// TIME ENTRIES
// =============================================================================

// TimeEntryRequest is the inbound row shape from forms and imports.
type TimeEntryRequest struct {
	EmployeeID       string         `json:"employee_id"`
	Date             string         `json:"date"`
	EntryType        string         `json:"entry_type"`
	ServiceID        string         `json:"service_id,omitempty"`
	Hours            float64        `json:"hours,omitempty"`
	SessionsCount    int            `json:"sessions_count,omitempty"`
	StudentsCount    int            `json:"students_count,omitempty"`
	AdjustmentAmount *float64       `json:"adjustment_amount,omitempty"`
	LeaveKind        string         `json:"leave_kind,omitempty"`
	LeaveType        string         `json:"leave_type,omitempty"`
	LeaveSubtype     string         `json:"leave_subtype,omitempty"`
	LeaveFraction    float64        `json:"leave_fraction,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

type ValidateRowsRequest struct {
	Rows              []TimeEntryRequest `json:"rows"`
	IncludeDuplicates bool               `json:"include_duplicates,omitempty"`
}

// ValidatedRowDTO is one row with its computed payment and violations.
type ValidatedRowDTO struct {
	EmployeeID   string   `json:"employee_id"`
	Date         string   `json:"date"`
	EntryType    string   `json:"entry_type"`
	RateUsed     *float64 `json:"rate_used"`
	TotalPayment float64  `json:"total_payment"`
	Payable      bool     `json:"payable"`
	Errors       []string `json:"errors"`
}

func validatedRowDTO(row payroll.ValidatedRow) ValidatedRowDTO {
	dto := ValidatedRowDTO{
		EmployeeID:   string(row.Entry.EmployeeID),
		Date:         row.Entry.Date.Format("2006-01-02"),
		EntryType:    string(row.Entry.EntryType),
		TotalPayment: row.Entry.TotalPayment.InexactFloat64(),
		Payable:      row.Entry.Payable,
		Errors:       row.Errors,
	}
	if dto.Errors == nil {
		dto.Errors = []string{}
	}
	if row.Entry.RateUsed != nil {
		rate := row.Entry.RateUsed.InexactFloat64()
		dto.RateUsed = &rate
	}
	return dto
}

func (r TimeEntryRequest) toEntry() (payroll.TimeEntry, error) {
	date, err := time.Parse("2006-01-02", r.Date)
	if err != nil {
		return payroll.TimeEntry{}, err
	}
	entry := payroll.TimeEntry{
		EmployeeID:    payroll.EmployeeID(r.EmployeeID),
		Date:          date,
		EntryType:     payroll.EntryType(r.EntryType),
		ServiceID:     payroll.ServiceID(r.ServiceID),
		Hours:         decimal.NewFromFloat(r.Hours),
		SessionsCount: r.SessionsCount,
		StudentsCount: r.StudentsCount,
		LeaveKind:     r.LeaveKind,
		LeaveType:     r.LeaveType,
		LeaveSubtype:  r.LeaveSubtype,
		LeaveFraction: r.LeaveFraction,
		Metadata:      r.Metadata,
	}
	if r.AdjustmentAmount != nil {
		amount := decimal.NewFromFloat(*r.AdjustmentAmount)
		entry.AdjustmentAmount = &amount
	}
	return entry, nil
}

// =============================================================================
// REPORTS
// =============================================================================

type EmployeeTotalsDTO struct {
	EmployeeID     string  `json:"employee_id"`
	Pay            float64 `json:"pay"`
	Hours          float64 `json:"hours"`
	Sessions       int     `json:"sessions"`
	PaidLeaveDays  float64 `json:"paid_leave_days"`
	Adjustments    int     `json:"adjustments"`
	AdjustmentsSum float64 `json:"adjustments_sum"`
	UniquePaidDays int     `json:"unique_paid_days"`
}

type PeriodTotalsDTO struct {
	TotalPay           float64             `json:"total_pay"`
	TotalHours         float64             `json:"total_hours"`
	TotalSessions      int                 `json:"total_sessions"`
	TotalPaidLeaveDays float64             `json:"total_paid_leave_days"`
	TotalAdjustments   float64             `json:"total_adjustments"`
	UniquePaidDays     int                 `json:"unique_paid_days"`
	ByEmployee         []EmployeeTotalsDTO `json:"by_employee"`
}

func periodTotalsDTO(t payroll.PeriodTotals) PeriodTotalsDTO {
	dto := PeriodTotalsDTO{
		TotalPay:           t.TotalPay.InexactFloat64(),
		TotalHours:         t.TotalHours.InexactFloat64(),
		TotalSessions:      t.TotalSessions,
		TotalPaidLeaveDays: t.TotalPaidLeaveDays.InexactFloat64(),
		TotalAdjustments:   t.TotalAdjustments.InexactFloat64(),
		UniquePaidDays:     t.UniquePaidDays,
		ByEmployee:         []EmployeeTotalsDTO{},
	}
	for _, row := range t.ByEmployee {
		dto.ByEmployee = append(dto.ByEmployee, EmployeeTotalsDTO{
			EmployeeID:     string(row.EmployeeID),
			Pay:            row.Pay.InexactFloat64(),
			Hours:          row.Hours.InexactFloat64(),
			Sessions:       row.Sessions,
			PaidLeaveDays:  row.PaidLeaveDays.InexactFloat64(),
			Adjustments:    row.Adjustments,
			AdjustmentsSum: row.AdjustmentsSum.InexactFloat64(),
			UniquePaidDays: row.UniquePaidDays,
		})
	}
	return dto
}

type DayAggregateDTO struct {
	EmployeeID  string  `json:"employee_id"`
	Date        string  `json:"date"`
	DayType     string  `json:"day_type"`
	Entries     int     `json:"entries"`
	DailyAmount float64 `json:"daily_amount"`
	Multiplier  float64 `json:"multiplier"`
	Payable     bool    `json:"payable"`
	Conflict    bool    `json:"conflict,omitempty"`
}

// =============================================================================
// LEAVE
// =============================================================================

type LeaveSummaryDTO struct {
	Year        int     `json:"year"`
	Quota       float64 `json:"quota"`
	CarryIn     float64 `json:"carry_in"`
	Used        float64 `json:"used"`
	Allocations float64 `json:"allocations"`
	Adjustments float64 `json:"adjustments"`
	Remaining   float64 `json:"remaining"`
}

func leaveSummaryDTO(s leave.Summary) LeaveSummaryDTO {
	return LeaveSummaryDTO{
		Year:        s.Year,
		Quota:       s.Quota.InexactFloat64(),
		CarryIn:     s.CarryIn.InexactFloat64(),
		Used:        s.Used.InexactFloat64(),
		Allocations: s.Allocations.InexactFloat64(),
		Adjustments: s.Adjustments.InexactFloat64(),
		Remaining:   s.Remaining.InexactFloat64(),
	}
}

type LeaveProjectionRequest struct {
	DeltaDays float64 `json:"delta_days"`
	AsOf      string  `json:"as_of,omitempty"`
}

type LeaveProjectionDTO struct {
	Summary            LeaveSummaryDTO `json:"summary"`
	ProjectedRemaining float64         `json:"projected_remaining"`
	Allowed            bool            `json:"allowed"`
}

// AppendLedgerRequest carries raw heterogeneous ledger records; the
// server normalizes them before persisting.
type AppendLedgerRequest struct {
	Entries []map[string]any `json:"entries"`
}

// =============================================================================
// RATES AND SERVICES
// =============================================================================

type ServiceRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RateCardEntryRequest struct {
	EmployeeID string  `json:"employee_id"`
	ServiceID  string  `json:"service_id,omitempty"`
	ValidFrom  string  `json:"valid_from"`
	Rate       float64 `json:"rate"`
}

// =============================================================================
// ERRORS
// =============================================================================

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
