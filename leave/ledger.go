/*
ledger.go - Leave-balance ledger entries and ingestion normalization

PURPOSE:
  The leave balance of an employee is the running sum of signed ledger
  entries (allocations, usage, carryover corrections). Historical data
  encodes the signed amount under several different field names; this
  file normalizes every variant into one canonical LedgerEntry at
  ingestion so the balance math never sees the legacy shapes.

FIRST-PRESENT-WINS:
  The numeric delta is taken from the first present of:
    balance, days_delta, delta, amount, days
  and the source label from the first present of:
    leave_type, source, type, reason

INVARIANT:
  Ledger entries are append-only. Corrections are new entries with the
  opposite sign, never edits.
*/
package leave

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER ENTRY - Canonical signed balance adjustment
// =============================================================================

// LedgerEntry is one signed adjustment to an employee's leave bank.
// Positive DeltaDays allocate days, negative DeltaDays consume them.
type LedgerEntry struct {
	ID         string
	EmployeeID string
	Date       time.Time
	DeltaDays  decimal.Decimal
	Source     string
	Reason     string
	CreatedAt  time.Time
}

// =============================================================================
// NORMALIZATION - Legacy shapes to canonical entries
// =============================================================================

// deltaFields lists the legacy numeric field names in priority order.
var deltaFields = []string{"balance", "days_delta", "delta", "amount", "days"}

// sourceFields lists the legacy label field names in priority order.
var sourceFields = []string{"leave_type", "source", "type", "reason"}

// NormalizeLedgerEntry converts a raw heterogeneous ledger record into a
// canonical LedgerEntry. The first present numeric field wins; records
// with no recognizable delta or an unparseable date are rejected.
func NormalizeLedgerEntry(raw map[string]any) (LedgerEntry, error) {
	entry := LedgerEntry{}

	if id, ok := raw["id"].(string); ok {
		entry.ID = id
	}

	employeeID, _ := raw["employee_id"].(string)
	if employeeID == "" {
		return LedgerEntry{}, fmt.Errorf("ledger entry missing employee_id")
	}
	entry.EmployeeID = employeeID

	rawDate, _ := raw["date"].(string)
	date, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return LedgerEntry{}, fmt.Errorf("ledger entry has invalid date %q: %w", rawDate, err)
	}
	entry.Date = date

	delta, ok := firstNumeric(raw, deltaFields)
	if !ok {
		return LedgerEntry{}, fmt.Errorf("ledger entry for %s has no delta field", employeeID)
	}
	entry.DeltaDays = delta

	for _, field := range sourceFields {
		if s, ok := raw[field].(string); ok && s != "" {
			entry.Source = s
			break
		}
	}
	if reason, ok := raw["reason"].(string); ok {
		entry.Reason = reason
	}

	return entry, nil
}

// NormalizeLedgerEntries normalizes a batch, rejecting the whole batch on
// the first malformed record so partial imports never reach the store.
func NormalizeLedgerEntries(raws []map[string]any) ([]LedgerEntry, error) {
	entries := make([]LedgerEntry, 0, len(raws))
	for i, raw := range raws {
		entry, err := NormalizeLedgerEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// firstNumeric returns the first present field that parses as a number.
func firstNumeric(raw map[string]any, fields []string) (decimal.Decimal, bool) {
	for _, field := range fields {
		v, present := raw[field]
		if !present || v == nil {
			continue
		}
		switch n := v.(type) {
		case float64:
			return decimal.NewFromFloat(n), true
		case int:
			return decimal.NewFromInt(int64(n)), true
		case string:
			d, err := decimal.NewFromString(n)
			if err != nil {
				continue
			}
			return d, true
		}
	}
	return decimal.Decimal{}, false
}
