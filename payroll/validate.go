/*
validate.go - Per-row constraint checking and payment computation

PURPOSE:
  Every time-entry row passes through here before persistence. The
  validator dispatches on the entry type, checks that only that type's
  legal fields are set, computes RateUsed and TotalPayment, and
  accumulates violation messages. Rows are never dropped: invalid rows
  come back with a non-empty Errors list for the caller to reject or
  display.

FIELD RULES BY ENTRY TYPE:
  session:     service + sessions + students required; no hours, no
               adjustment; global employees rejected
  hours:       hourly/instructor: hours x rate; global: flat daily rate
               regardless of logged hours; no service/session/adjustment
  leave_*:     global employees only; no other fields; full daily rate
               (the half-day fraction is applied downstream)
  adjustment:  amount required, verbatim payment, RateUsed forced nil

ERROR CHANNELS:
  Field violations are soft: Hebrew message strings on the result.
  Configuration failures (no working days, resolver failure) are hard:
  returned as errors and must block.
*/
package payroll

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RESULT
// =============================================================================

// ValidatedRow is a row with computed payment fields and any violations.
type ValidatedRow struct {
	Entry  TimeEntry
	Errors []string
}

// Valid reports whether the row passed every constraint.
func (v ValidatedRow) Valid() bool { return len(v.Errors) == 0 }

// ValidateOptions tunes batch validation.
type ValidateOptions struct {
	// IncludeDuplicates suppresses the duplicate-row error, for flows
	// that intentionally re-import existing rows.
	IncludeDuplicates bool
}

// =============================================================================
// SINGLE ROW
// =============================================================================

// ValidateRow checks one row against its entry type's field rules and
// computes RateUsed and TotalPayment. Soft violations land in the
// result; only configuration failures return an error.
func ValidateRow(entry TimeEntry, emp Employee, services map[ServiceID]Service, resolve RateResolver, caps Capabilities) (ValidatedRow, error) {
	row := ValidatedRow{Entry: entry}
	row.Entry.RateUsed = nil
	row.Entry.TotalPayment = decimal.Zero

	switch {
	case entry.EntryType == EntrySession:
		return validateSession(row, emp, services, resolve)
	case entry.EntryType == EntryHours:
		return validateHours(row, emp, resolve)
	case entry.IsLeave():
		return validateLeave(row, emp, resolve, caps)
	case entry.EntryType == EntryAdjustment:
		return validateAdjustment(row)
	default:
		row.Errors = append(row.Errors, msgUnknownEntryType)
		return row, nil
	}
}

func validateSession(row ValidatedRow, emp Employee, services map[ServiceID]Service, resolve RateResolver) (ValidatedRow, error) {
	entry := row.Entry

	if emp.Type == EmployeeGlobal {
		row.Errors = append(row.Errors, msgSessionForGlobal)
	}
	if entry.ServiceID == "" {
		row.Errors = append(row.Errors, msgMissingService)
	} else if services != nil {
		if _, ok := services[entry.ServiceID]; !ok {
			row.Errors = append(row.Errors, msgUnknownService)
		}
	}
	if entry.SessionsCount < 1 {
		row.Errors = append(row.Errors, msgInvalidSessions)
	}
	if entry.StudentsCount < 1 {
		row.Errors = append(row.Errors, msgInvalidStudents)
	}
	if !entry.Hours.IsZero() {
		row.Errors = append(row.Errors, msgUnexpectedHours)
	}
	if entry.AdjustmentAmount != nil {
		row.Errors = append(row.Errors, msgUnexpectedAdjustment)
	}
	if !row.Valid() {
		return row, nil
	}

	quote, err := resolve(entry.EmployeeID, entry.Date, entry.ServiceID)
	if err != nil {
		return row, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	if !quote.Rate.IsPositive() {
		row.Errors = append(row.Errors, msgMissingRate)
		return row, nil
	}

	rate := quote.Rate
	row.Entry.RateUsed = &rate
	row.Entry.TotalPayment = rate.
		Mul(decimal.NewFromInt(int64(entry.SessionsCount))).
		Mul(decimal.NewFromInt(int64(entry.StudentsCount)))
	row.Entry.Payable = true
	return row, nil
}

func validateHours(row ValidatedRow, emp Employee, resolve RateResolver) (ValidatedRow, error) {
	entry := row.Entry

	if entry.ServiceID != "" {
		row.Errors = append(row.Errors, msgUnexpectedService)
	}
	if entry.SessionsCount != 0 || entry.StudentsCount != 0 {
		row.Errors = append(row.Errors, msgUnexpectedSessions)
	}
	if entry.AdjustmentAmount != nil {
		row.Errors = append(row.Errors, msgUnexpectedAdjustment)
	}
	if emp.Type != EmployeeGlobal && !entry.Hours.IsPositive() {
		row.Errors = append(row.Errors, msgMissingHours)
	}
	if !row.Valid() {
		return row, nil
	}

	quote, err := resolve(entry.EmployeeID, entry.Date, "")
	if err != nil {
		return row, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	if !quote.Rate.IsPositive() {
		row.Errors = append(row.Errors, msgMissingRate)
		return row, nil
	}

	if emp.Type == EmployeeGlobal {
		// Flat daily rate; logged hours do not change the day's pay.
		daily, err := GlobalDailyRate(emp, entry.Date, quote.Rate)
		if err != nil {
			return row, err
		}
		row.Entry.RateUsed = &daily
		row.Entry.TotalPayment = daily
	} else {
		rate := quote.Rate
		row.Entry.RateUsed = &rate
		row.Entry.TotalPayment = rate.Mul(entry.Hours)
	}
	row.Entry.Payable = true
	return row, nil
}

func validateLeave(row ValidatedRow, emp Employee, resolve RateResolver, caps Capabilities) (ValidatedRow, error) {
	entry := row.Entry

	if emp.Type != EmployeeGlobal {
		row.Errors = append(row.Errors, msgLeaveForNonGlobal)
	}
	if entry.ServiceID != "" {
		row.Errors = append(row.Errors, msgUnexpectedService)
	}
	if !entry.Hours.IsZero() {
		row.Errors = append(row.Errors, msgUnexpectedHours)
	}
	if entry.SessionsCount != 0 || entry.StudentsCount != 0 {
		row.Errors = append(row.Errors, msgUnexpectedSessions)
	}
	if entry.AdjustmentAmount != nil {
		row.Errors = append(row.Errors, msgUnexpectedAdjustment)
	}
	if !row.Valid() {
		return row, nil
	}

	kind, ok := entry.LeaveKindOf(caps)
	if !ok {
		row.Errors = append(row.Errors, msgUnknownEntryType)
		return row, nil
	}
	row.Entry.Payable = kind.Payable()
	if !row.Entry.Payable {
		// Unpaid leave carries no amount anywhere downstream.
		return row, nil
	}

	quote, err := resolve(entry.EmployeeID, entry.Date, "")
	if err != nil {
		return row, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	daily, err := GlobalDailyRate(emp, entry.Date, quote.Rate)
	if err != nil {
		return row, err
	}

	// Full day rate; the fractional multiplier applies in aggregation.
	row.Entry.RateUsed = &daily
	row.Entry.TotalPayment = daily
	return row, nil
}

func validateAdjustment(row ValidatedRow) (ValidatedRow, error) {
	entry := row.Entry

	if entry.ServiceID != "" {
		row.Errors = append(row.Errors, msgUnexpectedService)
	}
	if !entry.Hours.IsZero() {
		row.Errors = append(row.Errors, msgUnexpectedHours)
	}
	if entry.SessionsCount != 0 || entry.StudentsCount != 0 {
		row.Errors = append(row.Errors, msgUnexpectedSessions)
	}
	if entry.AdjustmentAmount == nil {
		row.Errors = append(row.Errors, msgMissingAdjustment)
	}
	if !row.Valid() {
		return row, nil
	}

	// Adjustments are rate-independent: RateUsed stays nil and the
	// amount passes through verbatim.
	row.Entry.TotalPayment = *entry.AdjustmentAmount
	row.Entry.Payable = true
	return row, nil
}

// =============================================================================
// BATCH
// =============================================================================

// ValidateRows validates a batch and flags duplicate rows sharing the
// composite key employee|date|entry_type|service.
func ValidateRows(entries []TimeEntry, employees map[EmployeeID]Employee, services map[ServiceID]Service, resolve RateResolver, opts ValidateOptions, caps Capabilities) ([]ValidatedRow, error) {
	rows := make([]ValidatedRow, 0, len(entries))
	seen := map[string]bool{}

	for _, entry := range entries {
		emp, ok := employees[entry.EmployeeID]
		if !ok {
			rows = append(rows, ValidatedRow{Entry: entry, Errors: []string{msgUnknownEmployee}})
			continue
		}

		row, err := ValidateRow(entry, emp, services, resolve, caps)
		if err != nil {
			return nil, err
		}

		key := duplicateKey(entry)
		if seen[key] && !opts.IncludeDuplicates {
			row.Errors = append(row.Errors, msgDuplicateRow)
		}
		seen[key] = true

		rows = append(rows, row)
	}
	return rows, nil
}

func duplicateKey(entry TimeEntry) string {
	return DayKey(entry.EmployeeID, entry.Date) + "|" + string(entry.EntryType) + "|" + string(entry.ServiceID)
}
