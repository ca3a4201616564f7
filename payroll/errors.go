/*
errors.go - Error types for the payroll core

Two channels exist and must not be confused:

  Hard failures (returned errors): configuration problems that make the
  computation impossible, e.g. deriving a daily rate for an employee
  with no working days. Not retryable without fixing configuration.

  Soft validation failures: per-row constraint violations accumulated as
  message strings on the validation result. That channel never produces
  a Go error; the caller decides whether to block or warn.
*/
package payroll

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrNoWorkingDays is returned when a daily rate is requested for an
	// employee with no working days in the target month.
	ErrNoWorkingDays = errors.New("no working days configured")

	// ErrUnknownEmployee is returned when a row references an employee
	// missing from the supplied roster.
	ErrUnknownEmployee = errors.New("unknown employee")

	// ErrRateUnavailable is returned when the rate resolver fails.
	ErrRateUnavailable = errors.New("rate unavailable")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// NoWorkingDaysError reports which employee and month made daily-rate
// derivation impossible.
type NoWorkingDaysError struct {
	EmployeeID EmployeeID
	Year       int
	Month      time.Month
}

func (e *NoWorkingDaysError) Error() string {
	return fmt.Sprintf("employee %s has no working days in %04d-%02d", e.EmployeeID, e.Year, e.Month)
}

func (e *NoWorkingDaysError) Unwrap() error { return ErrNoWorkingDays }
